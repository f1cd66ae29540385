// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tavern-tui/internal/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "https://api.openai.com/v1", cfg.Provider.BaseURL)
	require.Equal(t, model.DefaultPresetModel, cfg.Provider.Model)
	require.Equal(t, model.DefaultTemperature, cfg.Provider.Temperature)
	require.Equal(t, model.PolicyRename, cfg.Policy())
	require.True(t, cfg.UI.RenderMarkdown)
}

func TestPolicyFallsBackToRename(t *testing.T) {
	cfg := DefaultConfig()

	cfg.ConflictPolicy = "smash"
	require.Equal(t, model.PolicyRename, cfg.Policy(), "unknown policy falls back to rename")

	cfg.ConflictPolicy = "overwrite"
	require.Equal(t, model.PolicyOverwrite, cfg.Policy())
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err, "a missing config file is not an error")
	require.Equal(t, DefaultConfig().Provider.BaseURL, cfg.Provider.BaseURL)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Persona = "I am the user."
	cfg.ConflictPolicy = "overwrite"
	cfg.Provider.APIKey = "sk-test"
	cfg.Provider.Temperature = 0.3
	cfg.UI.RenderMarkdown = false

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Persona, loaded.Persona)
	require.Equal(t, cfg.ConflictPolicy, loaded.ConflictPolicy)
	require.Equal(t, cfg.Provider.APIKey, loaded.Provider.APIKey)
	require.Equal(t, cfg.Provider.Temperature, loaded.Provider.Temperature)
	require.False(t, loaded.UI.RenderMarkdown)
}

func TestLoadPartialFileLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("persona = \"just me\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "just me", cfg.Persona)
	require.Equal(t, DefaultConfig().Provider.BaseURL, cfg.Provider.BaseURL,
		"unset keys keep their defaults")
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("provider = [broken"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestGlobalDefaultsAndReplace(t *testing.T) {
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	require.Equal(t, DefaultConfig().Provider.BaseURL, Global().Provider.BaseURL)

	custom := DefaultConfig()
	custom.Persona = "replaced"
	SetGlobal(custom)
	require.Equal(t, "replaced", Global().Persona)
}
