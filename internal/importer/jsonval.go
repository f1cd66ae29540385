// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package importer

import "fmt"

// =============================================================================
// JSON VALUE HELPERS
// =============================================================================

// Community asset files are schema-less, so everything is decoded into
// map[string]any and read through tolerant accessors with fallback keys.

// str returns the first key whose value is a string.
func str(obj map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := obj[key].(string); ok {
			return v, true
		}
	}
	return "", false
}

// strOr returns the first string value among keys, or def.
func strOr(obj map[string]any, def string, keys ...string) string {
	if v, ok := str(obj, keys...); ok {
		return v
	}
	return def
}

// boolOr returns the first bool value among keys, or def.
func boolOr(obj map[string]any, def bool, keys ...string) bool {
	for _, key := range keys {
		if v, ok := obj[key].(bool); ok {
			return v
		}
	}
	return def
}

// floatOr returns the first numeric value among keys, or def.
func floatOr(obj map[string]any, def float64, keys ...string) float64 {
	for _, key := range keys {
		if v, ok := obj[key].(float64); ok {
			return v
		}
	}
	return def
}

// object returns the first key whose value is a JSON object.
func object(obj map[string]any, keys ...string) (map[string]any, bool) {
	for _, key := range keys {
		if v, ok := obj[key].(map[string]any); ok {
			return v, true
		}
	}
	return nil, false
}

// array returns the first key whose value is a JSON array.
func array(obj map[string]any, keys ...string) ([]any, bool) {
	for _, key := range keys {
		if v, ok := obj[key].([]any); ok {
			return v, true
		}
	}
	return nil, false
}

// strList collects string elements of the first array value among keys.
// Non-string elements are dropped.
func strList(obj map[string]any, keys ...string) []string {
	arr, ok := array(obj, keys...)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// hasKey reports whether any of the keys is present at all.
func hasKey(obj map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}

// stringify renders a token value: strings pass through, everything else
// keeps its JSON-ish textual form.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
