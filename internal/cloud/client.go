// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud talks to an OpenAI-compatible completion endpoint.
//
// The client is a pure protocol adapter: it issues one streaming POST to
// {baseUrl}/chat/completions and decodes the server-sent-event chunk
// stream into incremental text deltas. Prompt assembly and post-processing
// live elsewhere.
package cloud

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/jeranaias/tavern-tui/internal/console"
)

// =============================================================================
// HTTP CLIENTS
// =============================================================================

const (
	// DefaultTimeout bounds non-streaming requests.
	DefaultTimeout = 60 * time.Second

	// streamIdleTimeout bounds connection reuse for the streaming client.
	streamIdleTimeout = 90 * time.Second
)

// sharedStreamingClient is used for all streaming requests. It carries no
// overall timeout; cancellation is context-controlled so a long generation
// is never cut off mid-stream.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     streamIdleTimeout,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// chatRequest is the JSON body for the completions endpoint.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
}

// wireMessage mirrors model.NetworkMessage on the wire.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamChunk is one decoded SSE payload from the completion stream.
type StreamChunk struct {
	ID      string `json:"id"`
	Choices []struct {
		Index int `json:"index"`
		Delta struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Content returns the first choice's delta content, or empty.
func (c *StreamChunk) Content() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].Delta.Content
	}
	return ""
}

// =============================================================================
// ERRORS
// =============================================================================

// TransportError aborts a stream: a non-2xx response, an empty body, or a
// network failure mid-read. Any partial text delivered before the failure
// stays with the caller.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("stream transport error: %v", e.Err)
}

// Unwrap returns the underlying error, if any.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// =============================================================================
// CLIENT
// =============================================================================

// Client streams chat completions from an OpenAI-compatible endpoint.
type Client struct {
	httpClient *http.Client
	console    *console.Console
}

// NewClient creates a client reporting to the given console.
func NewClient(c *console.Console) *Client {
	return &Client{
		httpClient: sharedStreamingClient,
		console:    c,
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}
