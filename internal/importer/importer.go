// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jeranaias/tavern-tui/internal/model"
)

// =============================================================================
// ASSET KINDS
// =============================================================================

// Kind identifies what an imported payload classified as.
type Kind string

const (
	KindCharacter Kind = "character"
	KindWorldBook Kind = "worldbook"
	KindRegexSet  Kind = "regex"
	KindPreset    Kind = "preset"
	KindExtension Kind = "extension"
	KindTheme     Kind = "theme"
)

// Label returns a user-facing label for the kind.
func (k Kind) Label() string {
	switch k {
	case KindCharacter:
		return "character card"
	case KindWorldBook:
		return "world book"
	case KindRegexSet:
		return "regex set"
	case KindPreset:
		return "preset"
	case KindExtension:
		return "extension"
	case KindTheme:
		return "theme"
	default:
		return string(k)
	}
}

// Asset is the result of a successful classification: exactly one of the
// typed fields is set, matching Kind. SourceName is the item's name as
// typed in the source file, before any conflict resolution.
type Asset struct {
	Kind       Kind
	SourceName string

	Character *model.CharacterCard
	WorldBook *model.WorldBook
	RegexSet  *model.RegexRuleSet
	Preset    *model.Preset
	Extension *model.ExtensionPackage
	Theme     *model.ThemeConfig
}

// Name returns the parsed item's source name.
func (a *Asset) Name() string {
	return a.SourceName
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Classify turns raw bytes plus a filename into a typed asset. Dispatch is
// by extension first: PNG/WebP payloads go through embedded character
// extraction, JSON payloads through ordered heuristic probing, and
// everything else is rejected.
func Classify(fileName string, data []byte) (*Asset, error) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".png"):
		payload, ok := extractCharaFromPNG(data)
		if !ok {
			return nil, fmt.Errorf("%s: %w", fileName, ErrNoEmbeddedPayload)
		}
		return classifyCharacterPayload(fileName, payload)

	case strings.HasSuffix(lower, ".webp"):
		payload, ok := extractCharaFromWebP(data)
		if !ok {
			return nil, fmt.Errorf("%s: %w", fileName, ErrNoEmbeddedPayload)
		}
		return classifyCharacterPayload(fileName, payload)

	case strings.HasSuffix(lower, ".json"):
		return classifyJSON(fileName, data)

	default:
		return nil, fmt.Errorf("%s: %w", fileName, ErrUnsupportedType)
	}
}

// classifyCharacterPayload parses an extracted image payload as a
// character card JSON object.
func classifyCharacterPayload(fileName, payload string) (*Asset, error) {
	var root map[string]any
	if err := json.Unmarshal([]byte(payload), &root); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, ErrUnrecognizedJSON)
	}
	card := parseCharacter(fileName, root)
	return &Asset{Kind: KindCharacter, SourceName: card.Name, Character: card}, nil
}

// classifyJSON applies the ordered heuristic probes. First match wins; the
// order is load-bearing because several probes overlap (an object carrying
// both "theme" and "entries" keys is a theme, never a world book).
func classifyJSON(fileName string, data []byte) (*Asset, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, ErrUnrecognizedJSON)
	}

	obj, isObj := root.(map[string]any)
	arr, isArr := root.([]any)
	if !isObj && !isArr {
		return nil, fmt.Errorf("%s: %w", fileName, ErrUnrecognizedJSON)
	}

	// 1. Character card.
	if isObj && hasKey(obj, "spec", "first_mes", "char_name", "char_persona", "chara_card_v2", "data") {
		card := parseCharacter(fileName, obj)
		return &Asset{Kind: KindCharacter, SourceName: card.Name, Character: card}, nil
	}

	// 2. Theme. The filename probe claims JSON of any shape, so a bare
	// array in a file named "*theme*" becomes an empty theme.
	if (isObj && hasKey(obj, "theme", "tokens")) || strings.Contains(strings.ToLower(fileName), "theme") {
		if obj == nil {
			obj = map[string]any{}
		}
		theme := parseTheme(fileName, obj)
		return &Asset{Kind: KindTheme, SourceName: theme.Name, Theme: theme}, nil
	}

	if isObj {
		// 3. Extension manifest.
		if hasKey(obj, "manifest", "permissions", "entry") {
			ext := parseExtension(fileName, obj)
			return &Asset{Kind: KindExtension, SourceName: ext.Name, Extension: ext}, nil
		}

		// 4. World book.
		if hasKey(obj, "entries", "world_info") {
			wb := parseWorldBook(fileName, obj)
			return &Asset{Kind: KindWorldBook, SourceName: wb.Name, WorldBook: wb}, nil
		}

		// 5. Regex rule set.
		if hasKey(obj, "regex", "rules") {
			rs := parseRegexSet(fileName, obj)
			return &Asset{Kind: KindRegexSet, SourceName: rs.Name, RegexSet: rs}, nil
		}

		// 6. Sampler preset.
		if hasKey(obj, "temperature", "model", "temp", "top_p", "top_k", "rep_pen", "sampler_order", "order") {
			preset := parsePreset(fileName, obj)
			return &Asset{Kind: KindPreset, SourceName: preset.Name, Preset: preset}, nil
		}
	}

	// 7. Bare array of regex rules.
	if isArr {
		if rs, ok := parseRegexArray(fileName, arr); ok {
			return &Asset{Kind: KindRegexSet, SourceName: rs.Name, RegexSet: rs}, nil
		}
	}

	return nil, fmt.Errorf("%s: %w", fileName, ErrUnrecognizedJSONKind)
}
