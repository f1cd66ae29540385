// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package library

import (
	"fmt"
	"slices"

	"github.com/jeranaias/tavern-tui/internal/model"
)

// =============================================================================
// CONFLICT RESOLUTION
// =============================================================================

// ResolveName decides the stored name for a candidate. Under overwrite the
// candidate passes through unchanged. Under rename a taken name gets a
// numeric disambiguator " (n)", searching upward from n=1 until free.
func ResolveName(candidate string, existing []string, policy model.ConflictPolicy) string {
	if policy == model.PolicyOverwrite {
		return candidate
	}
	if !slices.Contains(existing, candidate) {
		return candidate
	}
	for n := 1; ; n++ {
		renamed := fmt.Sprintf("%s (%d)", candidate, n)
		if !slices.Contains(existing, renamed) {
			return renamed
		}
	}
}

// upsert places item into items according to policy. Rename always appends:
// resolution already guaranteed a distinct name, so old and new coexist.
// Overwrite replaces the item whose name equals sourceName (the name as
// typed, pre-resolution) in place, preserving position, or appends when no
// such item exists.
func upsert[T any](items []T, item T, sourceName string, policy model.ConflictPolicy, nameOf func(T) string) []T {
	if policy == model.PolicyOverwrite {
		for i := range items {
			if nameOf(items[i]) == sourceName {
				out := slices.Clone(items)
				out[i] = item
				return out
			}
		}
	}
	return append(slices.Clone(items), item)
}

// names projects a collection onto its stored names.
func names[T any](items []T, nameOf func(T) string) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = nameOf(items[i])
	}
	return out
}
