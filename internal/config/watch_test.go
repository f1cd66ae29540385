// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Save(path, DefaultConfig()))

	changed := make(chan *Config, 4)
	stop, err := Watch(path, func(cfg *Config) { changed <- cfg })
	require.NoError(t, err)
	defer stop()

	next := DefaultConfig()
	next.Persona = "reloaded"
	require.NoError(t, Save(path, next))

	select {
	case cfg := <-changed:
		require.Equal(t, "reloaded", cfg.Persona)
	case <-time.After(5 * time.Second):
		t.Fatal("watch never fired")
	}
	require.Equal(t, "reloaded", Global().Persona)
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(path, DefaultConfig()))

	changed := make(chan *Config, 4)
	stop, err := Watch(path, func(cfg *Config) { changed <- cfg })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, Save(filepath.Join(dir, "other.toml"), DefaultConfig()))

	select {
	case <-changed:
		t.Fatal("sibling file write must not trigger a reload")
	case <-time.After(300 * time.Millisecond):
	}
}
