// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package importer

import (
	"strconv"
	"strings"

	"github.com/jeranaias/tavern-tui/internal/model"
)

// =============================================================================
// PER-TYPE PARSERS
// =============================================================================

// Each parser extracts a best-effort subset of fields with the fallback
// keys the community formats actually use. Missing fields default to empty
// strings/lists; ids are minted fresh unless the source carries one
// (extensions, regex rules).

// parseCharacter maps a character JSON object to a card. The card body may
// be wrapped in a "data" or "chara_card_v2" sub-object, and the body may
// nest a further "data" object.
func parseCharacter(fileName string, root map[string]any) *model.CharacterCard {
	data, ok := object(root, "data", "chara_card_v2")
	if !ok {
		data = root
	}
	body, ok := object(data, "data")
	if !ok {
		body = data
	}

	name, ok := str(body, "name", "char_name")
	if !ok {
		name = strOr(data, fileStem(fileName), "name")
	}

	return &model.CharacterCard{
		ID:           model.NewID(),
		Name:         name,
		Description:  strOr(body, "", "description", "char_persona"),
		Personality:  strOr(body, "", "personality"),
		Scenario:     strOr(body, "", "scenario"),
		FirstMessage: strOr(body, "", "first_mes", "firstMessage", "char_greeting"),
		MesExample:   strOr(body, "", "mes_example", "example_dialogue"),
		Creator:      strOr(body, "", "creator"),
		Tags:         strList(body, "tags"),
		AvatarPath:   fileName,
	}
}

// parseTheme reads color tokens from a "tokens" or "theme" object.
func parseTheme(fileName string, root map[string]any) *model.ThemeConfig {
	tokenObj, ok := object(root, "tokens", "theme")
	if !ok {
		tokenObj = map[string]any{}
	}
	tokens := make(map[string]string, len(tokenObj))
	for k, v := range tokenObj {
		tokens[k] = stringify(v)
	}
	return &model.ThemeConfig{
		ID:     model.NewID(),
		Name:   strOr(root, fileStem(fileName), "name"),
		Tokens: tokens,
	}
}

// parseExtension reads an extension manifest, which may wrap its fields in
// a "manifest" object. Imported extensions always start disabled.
func parseExtension(fileName string, root map[string]any) *model.ExtensionPackage {
	manifest, ok := object(root, "manifest")
	if !ok {
		manifest = root
	}
	return &model.ExtensionPackage{
		ID:                 strOr(manifest, model.NewID(), "id"),
		Name:               strOr(manifest, fileStem(fileName), "name"),
		Version:            strOr(manifest, "1.0.0", "version"),
		Description:        strOr(manifest, "", "description"),
		Permissions:        strList(manifest, "permissions"),
		Hooks:              strList(manifest, "hooks"),
		BeforeSendPrefix:   strOr(manifest, "", "beforeSendPrefix"),
		AfterReceiveSuffix: strOr(manifest, "", "afterReceiveSuffix"),
		Enabled:            false,
	}
}

// parseWorldBook reads entries from "entries" or "world_info". Entry uids
// default to the source index; a single "key" string stands in for a
// missing "keys" array.
func parseWorldBook(fileName string, root map[string]any) *model.WorldBook {
	raw, ok := array(root, "entries", "world_info")
	if !ok {
		raw = nil
	}

	entries := make([]model.WorldEntry, 0, len(raw))
	for idx, e := range raw {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		keys := strList(obj, "keys")
		if len(keys) == 0 {
			if k, ok := str(obj, "key"); ok {
				keys = []string{k}
			}
		}
		entries = append(entries, model.WorldEntry{
			UID:     strOr(obj, strconv.Itoa(idx), "uid"),
			Keys:    keys,
			Content: strOr(obj, "", "content", "entry"),
			Enabled: boolOr(obj, true, "enabled"),
		})
	}

	return &model.WorldBook{
		ID:      model.NewID(),
		Name:    strOr(root, fileStem(fileName), "name"),
		Entries: entries,
	}
}

// parseRegexSet reads rules from a "regex" or "rules" array. An object with
// neither still yields one rule synthesized from root-level fields.
func parseRegexSet(fileName string, root map[string]any) *model.RegexRuleSet {
	raw, _ := array(root, "regex", "rules")

	rules := make([]model.RegexRule, 0, len(raw))
	for _, e := range raw {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if rule, ok := parseRegexRule(obj); ok {
			rules = append(rules, rule)
		}
	}
	if len(rules) == 0 {
		rules = []model.RegexRule{{
			ID:            model.NewID(),
			FindRegex:     strOr(root, ".*", "find"),
			ReplaceString: strOr(root, "", "replace"),
			ApplyTo:       strOr(root, "assistant", "applyTo"),
			Enabled:       boolOr(root, true, "enabled"),
		}}
	}

	return &model.RegexRuleSet{
		ID:    model.NewID(),
		Name:  strOr(root, fileStem(fileName), "name"),
		Rules: rules,
	}
}

// parseRegexRule maps one rule object; the find pattern is required.
func parseRegexRule(obj map[string]any) (model.RegexRule, bool) {
	find, ok := str(obj, "find", "regex")
	if !ok {
		return model.RegexRule{}, false
	}
	return model.RegexRule{
		ID:            strOr(obj, model.NewID(), "id"),
		FindRegex:     find,
		ReplaceString: strOr(obj, "", "replace"),
		ApplyTo:       strOr(obj, "assistant", "applyTo", "scope"),
		Enabled:       boolOr(obj, true, "enabled"),
	}, true
}

// parseRegexArray synthesizes a rule set from a bare JSON array of rule
// objects. Accepted only when at least one element yields a rule.
func parseRegexArray(fileName string, arr []any) (*model.RegexRuleSet, bool) {
	rules := make([]model.RegexRule, 0, len(arr))
	for _, e := range arr {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if rule, ok := parseRegexRule(obj); ok {
			rules = append(rules, rule)
		}
	}
	if len(rules) == 0 {
		return nil, false
	}
	return &model.RegexRuleSet{
		ID:    model.NewID(),
		Name:  fileStem(fileName),
		Rules: rules,
	}, true
}

// parsePreset reads sampler settings with the usual key aliases.
func parsePreset(fileName string, root map[string]any) *model.Preset {
	return &model.Preset{
		ID:           model.NewID(),
		Name:         strOr(root, fileStem(fileName), "name"),
		Model:        strOr(root, model.DefaultPresetModel, "model", "preset", "api"),
		Temperature:  floatOr(root, model.DefaultTemperature, "temperature", "temp", "t"),
		SystemPrompt: strOr(root, "", "system_prompt", "systemPrompt", "prompt", "instruction"),
	}
}

// fileStem strips the final extension from a filename.
func fileStem(fileName string) string {
	if i := strings.LastIndexByte(fileName, '.'); i >= 0 {
		return fileName[:i]
	}
	return fileName
}
