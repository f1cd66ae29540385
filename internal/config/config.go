// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// tavern-tui.
//
// Configuration is TOML with sensible defaults. It covers the completion
// provider, the user persona, the import conflict policy, and selection
// defaults. The file at ~/.tavern/config.toml can be hot-reloaded via a
// filesystem watch; the library is the source of truth for state that
// changes at runtime, the config only seeds it.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/tavern-tui/internal/model"
	"github.com/jeranaias/tavern-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete tavern-tui configuration.
type Config struct {
	// Provider is the OpenAI-compatible endpoint to chat against.
	Provider ProviderConfig `toml:"provider"`

	// Persona is the user persona text injected into every system prompt.
	Persona string `toml:"persona"`

	// ConflictPolicy is the import conflict policy: "rename" or "overwrite".
	ConflictPolicy string `toml:"conflict_policy"`

	// UI holds cosmetic settings.
	UI UIConfig `toml:"ui"`
}

// ProviderConfig mirrors model.ProviderConfig in TOML form.
type ProviderConfig struct {
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Theme names a built-in theme used before any theme asset is applied.
	Theme string `toml:"theme"`

	// RenderMarkdown enables markdown rendering of final replies.
	RenderMarkdown bool `toml:"render_markdown"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       model.DefaultPresetModel,
			Temperature: model.DefaultTemperature,
		},
		ConflictPolicy: string(model.PolicyRename),
		UI: UIConfig{
			Theme:          "default",
			RenderMarkdown: true,
		},
	}
}

// ProviderModel converts the TOML provider section to the model type.
func (c *Config) ProviderModel() model.ProviderConfig {
	return model.ProviderConfig{
		BaseURL:     c.Provider.BaseURL,
		APIKey:      c.Provider.APIKey,
		Model:       c.Provider.Model,
		Temperature: c.Provider.Temperature,
	}
}

// Policy returns the configured conflict policy, defaulting to rename for
// unknown values.
func (c *Config) Policy() model.ConflictPolicy {
	p := model.ConflictPolicy(c.ConflictPolicy)
	if !p.Valid() {
		return model.PolicyRename
	}
	return p
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// ConfigDir returns the tavern-tui configuration directory, creating it if
// needed.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".tavern")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads a config file, layering it over the defaults. A missing file
// yields the defaults with no error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config atomically.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0o600)
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide config, loading defaults on first use.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		globalCfg = DefaultConfig()
	}
	return globalCfg
}

// SetGlobal replaces the process-wide config.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	globalCfg = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears the global config between tests.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalCfg = nil
	globalMu.Unlock()
}
