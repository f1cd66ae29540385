// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt assembles the outbound message list for a completion
// request.
//
// The system prompt is the blank-line join of, in order: persona text, the
// selected preset's system prompt, a character block, and world-book
// context triggered by keywords in the latest user message. History
// follows the system message with roles lowercased to the wire values.
package prompt

import (
	"strings"

	"github.com/jeranaias/tavern-tui/internal/library"
	"github.com/jeranaias/tavern-tui/internal/model"
)

// =============================================================================
// COMPOSER
// =============================================================================

// Composer builds completion requests from the library's current state.
type Composer struct {
	store *library.Store
}

// NewComposer creates a composer over the store.
func NewComposer(store *library.Store) *Composer {
	return &Composer{store: store}
}

// ComposeRequest builds the ordered role-tagged message list: one system
// message followed by the full history.
func (c *Composer) ComposeRequest(history []model.ChatMessage, persona, characterID, presetID string) []model.NetworkMessage {
	system := c.systemPrompt(history, persona, characterID, presetID)

	out := make([]model.NetworkMessage, 0, len(history)+1)
	out = append(out, model.NetworkMessage{Role: "system", Content: system})
	for _, msg := range history {
		out = append(out, model.NetworkMessage{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	return out
}

// systemPrompt joins the non-blank sections with blank lines between them.
func (c *Composer) systemPrompt(history []model.ChatMessage, persona, characterID, presetID string) string {
	presetPrompt := ""
	for _, p := range c.store.Presets() {
		if p.ID == presetID {
			presetPrompt = p.SystemPrompt
			break
		}
	}

	charBlock := ""
	for _, card := range c.store.Characters() {
		if card.ID == characterID {
			charBlock = characterBlock(card)
			break
		}
	}

	world := c.WorldContext(latestUserContent(history))

	sections := make([]string, 0, 4)
	for _, s := range []string{persona, presetPrompt, charBlock, world} {
		if strings.TrimSpace(s) != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n\n")
}

// characterBlock renders the selected character's fields, one labeled line
// each, skipping blank fields.
func characterBlock(card model.CharacterCard) string {
	var b strings.Builder
	b.WriteString("角色名: " + card.Name + "\n")
	if strings.TrimSpace(card.Description) != "" {
		b.WriteString("描述: " + card.Description + "\n")
	}
	if strings.TrimSpace(card.Personality) != "" {
		b.WriteString("性格: " + card.Personality + "\n")
	}
	if strings.TrimSpace(card.Scenario) != "" {
		b.WriteString("场景: " + card.Scenario + "\n")
	}
	if strings.TrimSpace(card.FirstMessage) != "" {
		b.WriteString("首句参考: " + card.FirstMessage + "\n")
	}
	return b.String()
}

// WorldContext scans every world book for enabled entries whose keys occur
// in the user input and emits one "[World] content" line per matched
// entry, in source order. Empty when nothing matched.
func (c *Composer) WorldContext(userInput string) string {
	books := c.store.WorldBooks()
	matched := matchWorldEntries(books, userInput)
	if len(matched) == 0 {
		return ""
	}

	var lines []string
	for bi, wb := range books {
		for ei, entry := range wb.Entries {
			if matched[entryRef{book: bi, entry: ei}] {
				lines = append(lines, "[World] "+entry.Content)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// latestUserContent returns the content of the most recent user-role
// message, or empty when history has none.
func latestUserContent(history []model.ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleUser {
			return history[i].Content
		}
	}
	return ""
}
