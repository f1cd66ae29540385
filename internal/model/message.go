// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the lowercased wire representation of the role.
func (r Role) String() string {
	return strings.ToLower(string(r))
}

// =============================================================================
// CHAT MESSAGE
// =============================================================================

// ChatMessage is one entry in the session history. Assistant messages are
// created empty and mutated in place (by ID) as streaming progresses.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	RawOutput string    `json:"raw_output,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatMessage creates a message with a fresh ID and the current time.
func NewChatMessage(role Role, content string) ChatMessage {
	return ChatMessage{
		ID:        NewID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// =============================================================================
// WIRE MESSAGE
// =============================================================================

// NetworkMessage is the role-tagged message shape sent to the completion
// endpoint.
type NetworkMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// =============================================================================
// PROVIDER CONFIG
// =============================================================================

// ProviderConfig identifies an OpenAI-compatible completion endpoint.
type ProviderConfig struct {
	BaseURL     string  `json:"base_url"`
	APIKey      string  `json:"api_key"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}
