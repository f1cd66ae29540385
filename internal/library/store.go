// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package library

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/jeranaias/tavern-tui/internal/console"
	"github.com/jeranaias/tavern-tui/internal/importer"
	"github.com/jeranaias/tavern-tui/internal/model"
)

// ErrInvalidURL is returned when a remote install target is not an
// http/https URL.
var ErrInvalidURL = errors.New("please enter a valid URL")

// Default hook and permission grants for extensions installed from a
// remote source. Remote installs start disabled until toggled on.
var (
	defaultRemoteHooks = []string{
		model.HookOnAppStart,
		model.HookOnSettingsOpen,
		model.HookBeforeSend,
		model.HookAfterReceive,
	}
	defaultRemotePermissions = []string{
		model.PermissionChatRead,
		model.PermissionChatWrite,
	}
)

// =============================================================================
// STORE
// =============================================================================

// Store is the single owner of all imported collections plus selection
// state. All collections start empty; nothing is ever deleted.
type Store struct {
	mu      sync.RWMutex
	console *console.Console

	policy model.ConflictPolicy

	characters []model.CharacterCard
	worldBooks []model.WorldBook
	regexSets  []model.RegexRuleSet
	presets    []model.Preset
	extensions []model.ExtensionPackage
	themes     []model.ThemeConfig

	selectedThemeID     string
	selectedCharacterID string
	selectedPresetID    string
	persona             string
}

// NewStore creates an empty store with the rename policy active.
func NewStore(c *console.Console) *Store {
	return &Store{
		console: c,
		policy:  model.PolicyRename,
	}
}

// =============================================================================
// POLICY
// =============================================================================

// SetConflictPolicy switches the import conflict policy for subsequent
// imports. The policy is read at the moment each import executes.
func (s *Store) SetConflictPolicy(policy model.ConflictPolicy) {
	s.mu.Lock()
	s.policy = policy
	s.mu.Unlock()
	s.console.Logf("import conflict mode=%s", policy)
}

// ConflictPolicy returns the active policy.
func (s *Store) ConflictPolicy() model.ConflictPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Characters returns a snapshot of the character collection.
func (s *Store) Characters() []model.CharacterCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.characters)
}

// WorldBooks returns a snapshot of the world book collection.
func (s *Store) WorldBooks() []model.WorldBook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.worldBooks)
}

// RegexRuleSets returns a snapshot of the regex rule set collection.
func (s *Store) RegexRuleSets() []model.RegexRuleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.regexSets)
}

// Presets returns a snapshot of the preset collection.
func (s *Store) Presets() []model.Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.presets)
}

// Extensions returns a snapshot of the extension collection.
func (s *Store) Extensions() []model.ExtensionPackage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.extensions)
}

// Themes returns a snapshot of the theme collection.
func (s *Store) Themes() []model.ThemeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.themes)
}

// SelectedThemeID returns the applied theme id, which may name a theme
// that does not exist. Selection is decoupled from existence validation.
func (s *Store) SelectedThemeID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedThemeID
}

// SelectedTheme resolves the applied theme, if it exists.
func (s *Store) SelectedTheme() (model.ThemeConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.themes {
		if t.ID == s.selectedThemeID {
			return t, true
		}
	}
	return model.ThemeConfig{}, false
}

// SelectedCharacter resolves the selected character, if any.
func (s *Store) SelectedCharacter() (model.CharacterCard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.characters {
		if c.ID == s.selectedCharacterID {
			return c, true
		}
	}
	return model.CharacterCard{}, false
}

// SelectedPreset resolves the selected preset, if any.
func (s *Store) SelectedPreset() (model.Preset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.presets {
		if p.ID == s.selectedPresetID {
			return p, true
		}
	}
	return model.Preset{}, false
}

// Persona returns the user persona text.
func (s *Store) Persona() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persona
}

// =============================================================================
// SELECTION STATE
// =============================================================================

// SetPersona replaces the persona text.
func (s *Store) SetPersona(text string) {
	s.mu.Lock()
	s.persona = text
	s.mu.Unlock()
}

// SelectCharacter sets the selected character id.
func (s *Store) SelectCharacter(id string) {
	s.mu.Lock()
	s.selectedCharacterID = id
	s.mu.Unlock()
}

// SelectPreset sets the selected preset id.
func (s *Store) SelectPreset(id string) {
	s.mu.Lock()
	s.selectedPresetID = id
	s.mu.Unlock()
}

// ApplyTheme sets the selected theme id unconditionally, even when the id
// is unknown.
func (s *Store) ApplyTheme(id string) {
	s.mu.Lock()
	s.selectedThemeID = id
	s.mu.Unlock()
	s.console.Logf("theme applied id=%s", id)
}

// ToggleExtension flips an extension's enabled flag. Unknown ids are a
// no-op.
func (s *Store) ToggleExtension(id string) {
	s.mu.Lock()
	ext := slices.Clone(s.extensions)
	for i := range ext {
		if ext[i].ID == id {
			ext[i].Enabled = !ext[i].Enabled
		}
	}
	s.extensions = ext
	s.mu.Unlock()
	s.console.Logf("extension toggled id=%s", id)
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportAsset classifies raw bytes and merges the resulting asset into the
// matching collection under the active conflict policy. It returns a
// user-facing success message; on failure the collections are untouched.
func (s *Store) ImportAsset(fileName string, data []byte) (string, error) {
	asset, err := importer.Classify(fileName, data)
	if err != nil {
		s.console.Logf("import failed file=%s error=%v", fileName, err)
		return "", err
	}

	s.mu.Lock()
	policy := s.policy
	stored := asset.SourceName

	switch asset.Kind {
	case importer.KindCharacter:
		card := *asset.Character
		card.Name = ResolveName(card.Name, names(s.characters, characterName), policy)
		stored = card.Name
		s.characters = upsert(s.characters, card, asset.SourceName, policy, characterName)

	case importer.KindWorldBook:
		wb := *asset.WorldBook
		wb.Name = ResolveName(wb.Name, names(s.worldBooks, worldBookName), policy)
		stored = wb.Name
		s.worldBooks = upsert(s.worldBooks, wb, asset.SourceName, policy, worldBookName)

	case importer.KindRegexSet:
		rs := *asset.RegexSet
		rs.Name = ResolveName(rs.Name, names(s.regexSets, regexSetName), policy)
		stored = rs.Name
		s.regexSets = upsert(s.regexSets, rs, asset.SourceName, policy, regexSetName)

	case importer.KindPreset:
		preset := *asset.Preset
		preset.Name = ResolveName(preset.Name, names(s.presets, presetName), policy)
		stored = preset.Name
		s.presets = upsert(s.presets, preset, asset.SourceName, policy, presetName)

	case importer.KindExtension:
		ext := *asset.Extension
		ext.Name = ResolveName(ext.Name, names(s.extensions, extensionName), policy)
		stored = ext.Name
		s.extensions = upsert(s.extensions, ext, asset.SourceName, policy, extensionName)

	case importer.KindTheme:
		theme := *asset.Theme
		theme.Name = ResolveName(theme.Name, names(s.themes, themeName), policy)
		stored = theme.Name
		s.themes = upsert(s.themes, theme, asset.SourceName, policy, themeName)
		if s.selectedThemeID == "" {
			s.selectedThemeID = theme.ID
		}
	}
	s.mu.Unlock()

	s.console.Logf("import %s success name=%s mode=%s", asset.Kind, stored, policy)
	return fmt.Sprintf("imported %s: %s", asset.Kind.Label(), stored), nil
}

// InstallFromRemote registers an extension source by URL. The extension is
// declarative only: it gets the default hook set and chat permissions and
// starts disabled.
func (s *Store) InstallFromRemote(url, ref string) (string, error) {
	cleanURL := strings.TrimSpace(url)
	if !strings.HasPrefix(cleanURL, "http://") && !strings.HasPrefix(cleanURL, "https://") {
		s.console.Logf("install extension rejected url=%s", cleanURL)
		return "", ErrInvalidURL
	}

	sourceName := cleanURL
	if i := strings.LastIndexByte(cleanURL, '/'); i >= 0 {
		sourceName = cleanURL[i+1:]
	}
	sourceName = strings.TrimSuffix(sourceName, ".git")
	if sourceName == "" {
		sourceName = "extension"
	}

	s.mu.Lock()
	policy := s.policy
	ext := model.ExtensionPackage{
		ID:          model.NewID(),
		Name:        ResolveName(sourceName, names(s.extensions, extensionName), policy),
		Version:     "1.0.0",
		Description: "installed from remote source",
		Permissions: slices.Clone(defaultRemotePermissions),
		Hooks:       slices.Clone(defaultRemoteHooks),
		Enabled:     false,
		SourceURL:   cleanURL,
		SourceRef:   strings.TrimSpace(ref),
	}
	s.extensions = upsert(s.extensions, ext, sourceName, policy, extensionName)
	s.mu.Unlock()

	s.console.Logf("install extension from remote url=%s ref=%s", cleanURL, ext.SourceRef)
	return fmt.Sprintf("added extension source: %s", ext.Name), nil
}

// =============================================================================
// ASSISTANT REGEX PIPELINE
// =============================================================================

// ApplyAssistantRegex runs the text through every enabled assistant-targeted
// rule across all rule sets, in collection then list order. A rule whose
// pattern fails to compile is skipped, leaving the text unchanged.
func (s *Store) ApplyAssistantRegex(text string) string {
	out := text
	for _, set := range s.RegexRuleSets() {
		for _, rule := range set.Rules {
			if !rule.Enabled || !strings.EqualFold(rule.ApplyTo, "assistant") {
				continue
			}
			re, err := regexp.Compile(rule.FindRegex)
			if err != nil {
				s.console.Logf("regex rule skipped id=%s error=%v", rule.ID, err)
				continue
			}
			out = re.ReplaceAllString(out, rule.ReplaceString)
		}
	}
	return out
}

// =============================================================================
// NAME PROJECTIONS
// =============================================================================

func characterName(c model.CharacterCard) string  { return c.Name }
func worldBookName(w model.WorldBook) string      { return w.Name }
func regexSetName(r model.RegexRuleSet) string    { return r.Name }
func presetName(p model.Preset) string            { return p.Name }
func extensionName(e model.ExtensionPackage) string { return e.Name }
func themeName(t model.ThemeConfig) string        { return t.Name }
