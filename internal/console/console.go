// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package console is the in-process observability sink for tavern-tui.
//
// Every component reports its lifecycle events here as a single
// human-readable line: import attempts, hook dispatches, permission
// denials, theme/extension toggles, and stream events. The console is a
// sink only; nothing reads decisions back out of it.
package console

import (
	"fmt"
	"strings"
	"sync"
)

// MaxLines caps the retained log ring. Oldest lines are dropped first.
const MaxLines = 800

// Console collects log lines in memory and fans them out to subscribers.
type Console struct {
	mu    sync.Mutex
	lines []string
	subs  []func(line string)
}

// New creates an empty console.
func New() *Console {
	return &Console{}
}

// Log records one line and notifies subscribers.
func (c *Console) Log(line string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.lines = append(c.lines, line)
	if len(c.lines) > MaxLines {
		c.lines = c.lines[len(c.lines)-MaxLines:]
	}
	subs := c.subs
	c.mu.Unlock()

	for _, fn := range subs {
		fn(line)
	}
}

// Logf records a formatted line.
func (c *Console) Logf(format string, args ...any) {
	c.Log(fmt.Sprintf(format, args...))
}

// Subscribe registers a callback invoked for each subsequent line.
// Callbacks run on the logging goroutine and must not block.
func (c *Console) Subscribe(fn func(line string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Lines returns a snapshot copy of the retained lines.
func (c *Console) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// Export joins the retained lines into one plain-text blob.
func (c *Console) Export() string {
	return strings.Join(c.Lines(), "\n")
}

// Len returns the number of retained lines.
func (c *Console) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}
