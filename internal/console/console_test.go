// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestLogAndLines(t *testing.T) {
	c := New()
	c.Log("one")
	c.Logf("two %d", 2)

	lines := c.Lines()
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two 2" {
		t.Fatalf("lines = %v", lines)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d", c.Len())
	}
}

func TestRingDropsOldestLines(t *testing.T) {
	c := New()
	for i := 0; i < MaxLines+50; i++ {
		c.Logf("line %d", i)
	}

	lines := c.Lines()
	if len(lines) != MaxLines {
		t.Fatalf("retained = %d, want %d", len(lines), MaxLines)
	}
	if lines[0] != "line 50" {
		t.Errorf("oldest retained = %q, want \"line 50\"", lines[0])
	}
	if lines[len(lines)-1] != fmt.Sprintf("line %d", MaxLines+49) {
		t.Errorf("newest retained = %q", lines[len(lines)-1])
	}
}

func TestSubscribeReceivesSubsequentLines(t *testing.T) {
	c := New()
	c.Log("before")

	var got []string
	c.Subscribe(func(line string) { got = append(got, line) })
	c.Log("after")

	if len(got) != 1 || got[0] != "after" {
		t.Fatalf("subscriber got %v", got)
	}
}

func TestExportJoinsLines(t *testing.T) {
	c := New()
	c.Log("a")
	c.Log("b")
	if got := c.Export(); got != "a\nb" {
		t.Fatalf("Export = %q", got)
	}
}

func TestNilConsoleLogIsSafe(t *testing.T) {
	var c *Console
	c.Log("ignored") // must not panic
}

func TestConcurrentLogging(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Logf("worker %d line %d", n, j)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != MaxLines {
		t.Fatalf("Len = %d, want %d", c.Len(), MaxLines)
	}
	for _, line := range c.Lines() {
		if !strings.HasPrefix(line, "worker ") {
			t.Fatalf("corrupted line %q", line)
		}
	}
}
