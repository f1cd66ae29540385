// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/jeranaias/tavern-tui/internal/model"
)

// =============================================================================
// STREAMING CHAT
// =============================================================================

// StreamChat prepares a streaming completion request. The returned stream
// is cold: no network traffic happens until the first Recv. It is
// single-use and forward-only.
func (c *Client) StreamChat(ctx context.Context, cfg model.ProviderConfig, messages []model.NetworkMessage) *Stream {
	return &Stream{
		ctx:      ctx,
		client:   c,
		cfg:      cfg,
		messages: messages,
	}
}

// Stream delivers completion deltas one at a time. Each Recv blocks until
// the next delta arrives, so downstream processing naturally backpressures
// the network read. Close releases the response body; callers must Close
// when abandoning a stream early.
type Stream struct {
	ctx      context.Context
	client   *Client
	cfg      model.ProviderConfig
	messages []model.NetworkMessage

	started bool
	body    io.ReadCloser
	reader  *bufio.Reader
	done    bool
}

// Recv returns the next text delta. It returns io.EOF after the stream has
// finished cleanly (a "data: [DONE]" payload or end of body) and a
// *TransportError when the request or connection fails.
func (s *Stream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	if !s.started {
		if err := s.start(); err != nil {
			s.done = true
			return "", err
		}
	}

	for {
		select {
		case <-s.ctx.Done():
			s.Close()
			return "", s.ctx.Err()
		default:
		}

		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Server closed without [DONE]; treat as a clean end.
				s.finish("stream completed")
				return "", io.EOF
			}
			s.Close()
			s.done = true
			s.client.console.Logf("stream read error=%v", err)
			return "", &TransportError{Err: err}
		}

		line = strings.TrimRight(line, "\r\n")
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			s.finish("stream finished [DONE]")
			return "", io.EOF
		}

		var chunk StreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Malformed chunks are logged and skipped; the stream continues.
			s.client.console.Logf("chunk parse error=%v payload=%s", err, payload)
			continue
		}
		if delta := chunk.Content(); delta != "" {
			s.client.console.Logf("stream delta=%s", delta)
			return delta, nil
		}
	}
}

// Close releases the underlying response body. Safe to call repeatedly.
func (s *Stream) Close() {
	if s.body != nil {
		s.body.Close()
		s.body = nil
	}
}

// start issues the HTTP request and validates the response.
func (s *Stream) start() error {
	s.started = true

	reqBody := chatRequest{
		Model:       s.cfg.Model,
		Stream:      true,
		Temperature: s.cfg.Temperature,
		Messages:    make([]wireMessage, 0, len(s.messages)),
	}
	for _, m := range s.messages {
		reqBody.Messages = append(reqBody.Messages, wireMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return &TransportError{Err: err}
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/chat/completions"
	s.client.console.Logf("request url=%s model=%s", url, s.cfg.Model)

	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		s.client.console.Logf("request failed error=%v", err)
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		s.client.console.Logf("response error code=%d body=%s", resp.StatusCode, body)
		return &TransportError{Status: resp.StatusCode, Body: string(body)}
	}

	s.body = resp.Body
	s.reader = bufio.NewReader(resp.Body)
	s.client.console.Log("stream started")
	return nil
}

// finish marks the stream done and logs the closing event.
func (s *Stream) finish(event string) {
	s.done = true
	s.Close()
	s.client.console.Log(event)
}
