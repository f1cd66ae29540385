// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli is the interactive terminal front end for tavern-tui.
//
// It is a thin shell over the core: every command maps onto one library,
// extension, or chat operation. Input editing and history come from liner;
// output styling from the active theme; final replies are optionally
// rendered as markdown.
//
// Interactive commands:
//
//	/help             Show available commands
//	/import PATH      Import an asset file (png/webp/json)
//	/policy [MODE]    Show or set the conflict policy (rename|overwrite)
//	/char [ID]        List characters or select one
//	/preset [ID]      List presets or select one
//	/ext              List extensions
//	/ext toggle ID    Toggle an extension
//	/ext install URL [REF]  Register a remote extension source
//	/theme [ID]       List themes or apply one
//	/persona TEXT     Set the user persona
//	/console          Dump the console log
//	/clear            Clear conversation history
//	/quit             Exit
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/tavern-tui/internal/chat"
	"github.com/jeranaias/tavern-tui/internal/config"
	"github.com/jeranaias/tavern-tui/internal/console"
	"github.com/jeranaias/tavern-tui/internal/library"
	"github.com/jeranaias/tavern-tui/internal/model"
	"github.com/jeranaias/tavern-tui/internal/theme"
)

// =============================================================================
// REPL
// =============================================================================

// REPL drives the interactive session.
type REPL struct {
	store   *library.Store
	service *chat.Service
	session *chat.Session
	console *console.Console

	line        *liner.State
	historyFile string
}

// New creates a REPL with input history stored in the config directory.
func New(store *library.Store, service *chat.Service, c *console.Console) *REPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := ""
	if dir, err := config.ConfigDir(); err == nil {
		historyFile = filepath.Join(dir, "chat_history")
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	return &REPL{
		store:       store,
		service:     service,
		session:     chat.NewSession(),
		console:     c,
		line:        line,
		historyFile: historyFile,
	}
}

// Close saves input history and releases the terminal.
func (r *REPL) Close() {
	if r.historyFile != "" {
		if f, err := os.Create(r.historyFile); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

// Run processes input until /quit or EOF.
func (r *REPL) Run(ctx context.Context) error {
	th := r.currentTheme()
	fmt.Println(th.Prompt.Render("tavern-tui") + th.Info.Render("  /help for commands"))

	for {
		input, err := r.line.Prompt("> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := r.handleCommand(input); quit {
				return nil
			}
			continue
		}

		r.send(ctx, input)
	}
}

// currentTheme resolves the applied theme asset, falling back to the
// built-in palette.
func (r *REPL) currentTheme() *theme.Theme {
	if cfg, ok := r.store.SelectedTheme(); ok {
		return theme.FromConfig(cfg)
	}
	return theme.Default()
}

// =============================================================================
// SEND
// =============================================================================

// send runs one full reply cycle: hook the outbound text, stream the
// completion, and print deltas as they render.
func (r *REPL) send(ctx context.Context, input string) {
	th := r.currentTheme()

	if !r.session.TryBeginSend() {
		fmt.Println(th.Warning.Render("a reply is already in flight"))
		return
	}
	defer r.session.EndSend()

	prepared := r.service.PrepareUserInput(input)
	r.session.Append(model.RoleUser, prepared)
	assistant := r.session.Append(model.RoleAssistant, "")

	cfg := config.Global()
	stream := r.service.StreamAssistantReply(
		ctx,
		cfg.ProviderModel(),
		r.session.Messages(),
		r.store.Persona(),
		r.selectedCharacterID(),
		r.selectedPresetID(),
	)
	defer stream.Close()

	fmt.Print(th.AssistantLabel.Render("assistant") + " ")

	var last chat.Output
	printed := 0
	for {
		out, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			fmt.Println()
			fmt.Println(th.Error.Render(err.Error()))
			// Keep whatever partial text was committed before the failure.
			r.session.UpdateAssistant(assistant.ID, last.Rendered, last.Raw)
			return
		}
		last = out
		r.session.UpdateAssistant(assistant.ID, out.Rendered, out.Raw)

		// Raw deltas print incrementally; the rendered form replaces the
		// line only once the stream ends.
		if len(out.Raw) > printed {
			fmt.Print(out.Raw[printed:])
			printed = len(out.Raw)
		}
	}
	fmt.Println()

	if cfg.UI.RenderMarkdown && last.Rendered != "" {
		if md, err := glamour.Render(last.Rendered, "dark"); err == nil {
			fmt.Print(md)
		}
	} else if last.Rendered != last.Raw && last.Rendered != "" {
		fmt.Println(last.Rendered)
	}
}

// selectedCharacterID returns the selected character's id, or empty.
func (r *REPL) selectedCharacterID() string {
	if card, ok := r.store.SelectedCharacter(); ok {
		return card.ID
	}
	return ""
}

// selectedPresetID returns the selected preset's id, or empty.
func (r *REPL) selectedPresetID() string {
	if p, ok := r.store.SelectedPreset(); ok {
		return p.ID
	}
	return ""
}
