// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme maps imported theme color tokens onto terminal styles.
//
// Imported ThemeConfig records carry free-form token names. The mapping
// tries the common aliases for each slot and falls back to the built-in
// palette, so a sparse or foreign token set still renders.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/tavern-tui/internal/model"
)

// =============================================================================
// BUILT-IN PALETTE
// =============================================================================

// Default token values, used for any slot a theme does not define.
const (
	defaultPrimary = "#7C3AED"
	defaultAccent  = "#06B6D4"
	defaultSuccess = "#10B981"
	defaultWarning = "#F59E0B"
	defaultError   = "#EF4444"
	defaultMuted   = "#6B7280"
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds the styled components used by the terminal front end.
type Theme struct {
	Profile termenv.Profile

	Prompt         lipgloss.Style
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	Info           lipgloss.Style
	Warning        lipgloss.Style
	Error          lipgloss.Style
	World          lipgloss.Style
}

// Default returns the built-in theme.
func Default() *Theme {
	return build(map[string]string{})
}

// FromConfig builds a theme from an imported token set.
func FromConfig(cfg model.ThemeConfig) *Theme {
	return build(cfg.Tokens)
}

// build resolves each slot through token aliases, then the default.
func build(tokens map[string]string) *Theme {
	color := func(def string, names ...string) lipgloss.Color {
		for _, n := range names {
			if v, ok := tokens[n]; ok && v != "" {
				return lipgloss.Color(v)
			}
		}
		return lipgloss.Color(def)
	}

	primary := color(defaultPrimary, "primary", "primaryColor", "accent_primary")
	accent := color(defaultAccent, "accent", "secondary", "accentColor")
	success := color(defaultSuccess, "success", "ok")
	warning := color(defaultWarning, "warning", "warn")
	errc := color(defaultError, "error", "danger")
	muted := color(defaultMuted, "muted", "subtle", "textSecondary")

	return &Theme{
		Profile:        termenv.ColorProfile(),
		Prompt:         lipgloss.NewStyle().Foreground(primary).Bold(true),
		UserLabel:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		AssistantLabel: lipgloss.NewStyle().Foreground(success).Bold(true),
		Info:           lipgloss.NewStyle().Foreground(muted),
		Warning:        lipgloss.NewStyle().Foreground(warning),
		Error:          lipgloss.NewStyle().Foreground(errc).Bold(true),
		World:          lipgloss.NewStyle().Foreground(primary).Italic(true),
	}
}
