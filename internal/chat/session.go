// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"slices"
	"sync"

	"github.com/jeranaias/tavern-tui/internal/model"
)

// =============================================================================
// SESSION
// =============================================================================

// Session holds one conversation's message history. A single send is
// processed at a time; the assistant message is appended empty and then
// mutated in place by id as the stream progresses.
type Session struct {
	mu       sync.Mutex
	messages []model.ChatMessage
	busy     bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Messages returns a snapshot of the history.
func (s *Session) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Append adds a message and returns it.
func (s *Session) Append(role model.Role, content string) model.ChatMessage {
	msg := model.NewChatMessage(role, content)
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return msg
}

// UpdateAssistant overwrites the content and raw output of the message
// with the given id. Unknown ids are a no-op.
func (s *Session) UpdateAssistant(id, rendered, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Content = rendered
			s.messages[i].RawOutput = raw
			return
		}
	}
}

// TryBeginSend marks the session busy. It returns false when a send is
// already in flight; overlapping sends are rejected at the call site.
func (s *Session) TryBeginSend() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// EndSend clears the busy flag after a send completes or fails.
func (s *Session) EndSend() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Clear drops the history.
func (s *Session) Clear() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
}
