// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "github.com/google/uuid"

// =============================================================================
// CONFLICT POLICY
// =============================================================================

// ConflictPolicy controls what happens when an imported asset's name
// collides with an existing item in the same collection.
type ConflictPolicy string

const (
	// PolicyRename keeps both items, suffixing the new one with " (n)".
	PolicyRename ConflictPolicy = "rename"

	// PolicyOverwrite replaces the existing item of the same name in place.
	PolicyOverwrite ConflictPolicy = "overwrite"
)

// Valid reports whether the policy is one of the known values.
func (p ConflictPolicy) Valid() bool {
	return p == PolicyRename || p == PolicyOverwrite
}

// =============================================================================
// CHARACTER CARD
// =============================================================================

// CharacterCard is a structured persona definition importable from PNG/WebP
// metadata or JSON.
type CharacterCard struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Personality  string   `json:"personality"`
	Scenario     string   `json:"scenario"`
	FirstMessage string   `json:"first_message"`
	MesExample   string   `json:"mes_example"`
	Creator      string   `json:"creator"`
	Tags         []string `json:"tags"`
	AvatarPath   string   `json:"avatar_path"`
}

// =============================================================================
// WORLD BOOK
// =============================================================================

// WorldBook groups keyword-triggered context entries. Entries retain their
// source order.
type WorldBook struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Entries []WorldEntry `json:"entries"`
}

// WorldEntry contributes its content to the prompt when one of its keys
// appears (case-insensitively) in the latest user message.
type WorldEntry struct {
	UID     string   `json:"uid"`
	Keys    []string `json:"keys"`
	Content string   `json:"content"`
	Enabled bool     `json:"enabled"`
}

// =============================================================================
// REGEX RULES
// =============================================================================

// RegexRuleSet is an ordered list of rewrite rules applied to assistant
// output. Rules apply in list order.
type RegexRuleSet struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Rules []RegexRule `json:"rules"`
}

// RegexRule rewrites text matching FindRegex with ReplaceString. A rule only
// fires when enabled and targeting assistant output; a pattern that fails to
// compile is skipped, leaving the text unchanged.
type RegexRule struct {
	ID            string `json:"id"`
	FindRegex     string `json:"find_regex"`
	ReplaceString string `json:"replace_string"`
	ApplyTo       string `json:"apply_to"`
	Enabled       bool   `json:"enabled"`
}

// =============================================================================
// PRESET
// =============================================================================

// Preset is a saved model/temperature/system-prompt bundle.
type Preset struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	SystemPrompt string  `json:"system_prompt"`
}

// DefaultPresetModel is used when an imported preset names no model.
const DefaultPresetModel = "gpt-4o-mini"

// DefaultTemperature is the sampling temperature used when none is given.
const DefaultTemperature = 0.8

// =============================================================================
// EXTENSION PACKAGE
// =============================================================================

// ExtensionPackage is a declarative extension: hook names, permissions, and
// the prefix/suffix text it contributes. Nothing in it is executable.
type ExtensionPackage struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Version            string   `json:"version"`
	Description        string   `json:"description"`
	Permissions        []string `json:"permissions"`
	Hooks              []string `json:"hooks"`
	BeforeSendPrefix   string   `json:"before_send_prefix"`
	AfterReceiveSuffix string   `json:"after_receive_suffix"`
	Enabled            bool     `json:"enabled"`
	SourceURL          string   `json:"source_url,omitempty"`
	SourceRef          string   `json:"source_ref,omitempty"`
}

// Well-known hook names.
const (
	HookOnAppStart     = "onAppStart"
	HookOnSettingsOpen = "onSettingsOpen"
	HookBeforeSend     = "beforeSend"
	HookAfterReceive   = "afterReceive"
)

// Well-known permission names.
const (
	PermissionChatRead  = "chatRead"
	PermissionChatWrite = "chatWrite"
	PermissionWildcard  = "*"
)

// =============================================================================
// THEME
// =============================================================================

// ThemeConfig is a named mapping of color token names to values.
type ThemeConfig struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Tokens map[string]string `json:"tokens"`
}

// =============================================================================
// IDENTITY
// =============================================================================

// NewID mints a globally unique asset identifier.
func NewID() string {
	return uuid.New().String()
}
