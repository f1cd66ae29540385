// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"strings"

	"github.com/coregx/ahocorasick"

	"github.com/jeranaias/tavern-tui/internal/model"
)

// =============================================================================
// WORLD BOOK MATCHER
// =============================================================================

// Matching is case-insensitive substring containment: an enabled entry
// fires when any of its non-blank keys occurs anywhere in the latest user
// message. All keys across all books are scanned in one Aho-Corasick pass
// over the lowercased message; entry order in the output follows book and
// entry source order, never match position.

// entryRef addresses one entry inside the books slice.
type entryRef struct {
	book  int
	entry int
}

// matchWorldEntries returns the set of entries whose keys occur in input,
// as book/entry indices in source order.
func matchWorldEntries(books []model.WorldBook, input string) map[entryRef]bool {
	patterns := make([]string, 0, 16)
	patternIndex := make(map[string]int)
	patternRefs := make([][]entryRef, 0, 16)

	for bi, wb := range books {
		for ei, entry := range wb.Entries {
			if !entry.Enabled {
				continue
			}
			for _, key := range entry.Keys {
				k := strings.ToLower(strings.TrimSpace(key))
				if k == "" {
					continue
				}
				idx, ok := patternIndex[k]
				if !ok {
					idx = len(patterns)
					patternIndex[k] = idx
					patterns = append(patterns, k)
					patternRefs = append(patternRefs, nil)
				}
				patternRefs[idx] = append(patternRefs[idx], entryRef{book: bi, entry: ei})
			}
		}
	}

	matched := make(map[entryRef]bool)
	if len(patterns) == 0 {
		return matched
	}

	haystack := strings.ToLower(input)

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		// Fall back to a plain scan when the automaton cannot be built.
		for idx, p := range patterns {
			if strings.Contains(haystack, p) {
				for _, ref := range patternRefs[idx] {
					matched[ref] = true
				}
			}
		}
		return matched
	}

	for _, m := range automaton.FindAllOverlapping([]byte(haystack)) {
		if m.PatternID < 0 || m.PatternID >= len(patternRefs) {
			continue
		}
		for _, ref := range patternRefs[m.PatternID] {
			matched[ref] = true
		}
	}
	return matched
}
