// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat drives one streaming reply through the post-processing
// pipeline.
//
// For each network delta the accumulator appends to the raw text, then
// recomputes the rendered text from scratch: the whole accumulated raw
// output passes through every enabled assistant regex rule, then through
// the afterReceive hook chain. Rendering is not incremental.
package chat

import (
	"context"
	"strings"

	"github.com/jeranaias/tavern-tui/internal/cloud"
	"github.com/jeranaias/tavern-tui/internal/extension"
	"github.com/jeranaias/tavern-tui/internal/library"
	"github.com/jeranaias/tavern-tui/internal/model"
	"github.com/jeranaias/tavern-tui/internal/prompt"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service wires the composer, the streaming client, and both rewrite
// stages into the reply pipeline.
type Service struct {
	store    *library.Store
	hooks    *extension.Dispatcher
	composer *prompt.Composer
	client   *cloud.Client
}

// NewService creates the chat service.
func NewService(store *library.Store, hooks *extension.Dispatcher, composer *prompt.Composer, client *cloud.Client) *Service {
	return &Service{store: store, hooks: hooks, composer: composer, client: client}
}

// PrepareUserInput runs outbound user text through the beforeSend hook
// chain.
func (s *Service) PrepareUserInput(text string) string {
	return s.hooks.ApplyBeforeSend(text)
}

// DispatchEvent notifies extensions registered for a lifecycle event.
func (s *Service) DispatchEvent(event string) {
	s.hooks.Dispatch(event)
}

// StreamAssistantReply composes the request and opens a cold reply stream.
// Callers must not run two streams for the same session concurrently, and
// must Close the stream when abandoning it early.
func (s *Service) StreamAssistantReply(ctx context.Context, cfg model.ProviderConfig, history []model.ChatMessage, persona, characterID, presetID string) *ReplyStream {
	messages := s.composer.ComposeRequest(history, persona, characterID, presetID)
	return &ReplyStream{
		inner: s.client.StreamChat(ctx, cfg, messages),
		svc:   s,
	}
}

// =============================================================================
// REPLY ACCUMULATOR
// =============================================================================

// Output is one step of the reply pipeline: the full raw text received so
// far and its rendered form after both rewrite stages.
type Output struct {
	Rendered string
	Raw      string
}

// ReplyStream wraps the network delta stream with the accumulator. One
// Output is produced per input delta.
type ReplyStream struct {
	inner *cloud.Stream
	svc   *Service
	raw   strings.Builder
}

// Recv blocks for the next delta and returns the re-rendered accumulated
// output. It propagates io.EOF on clean termination and transport errors
// as-is; text already returned stays valid either way.
func (r *ReplyStream) Recv() (Output, error) {
	delta, err := r.inner.Recv()
	if err != nil {
		return Output{}, err
	}
	r.raw.WriteString(delta)

	raw := r.raw.String()
	rendered := r.svc.hooks.ApplyAfterReceive(r.svc.store.ApplyAssistantRegex(raw))
	return Output{Rendered: rendered, Raw: raw}, nil
}

// Close releases the underlying network stream.
func (r *ReplyStream) Close() {
	r.inner.Close()
}
