// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/tavern-tui/internal/model"
	"github.com/jeranaias/tavern-tui/internal/util"
)

// =============================================================================
// COMMAND DISPATCH
// =============================================================================

// handleCommand executes one slash command. It returns true when the REPL
// should exit.
func (r *REPL) handleCommand(input string) bool {
	th := r.currentTheme()
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		r.printHelp()

	case "/import":
		if len(args) < 1 {
			fmt.Println(th.Warning.Render("usage: /import PATH"))
			break
		}
		path := strings.Join(args, " ")
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Println(th.Error.Render(err.Error()))
			break
		}
		msg, err := r.store.ImportAsset(filepath.Base(path), data)
		if err != nil {
			fmt.Println(th.Error.Render(err.Error()))
			break
		}
		fmt.Println(th.Info.Render(msg))

	case "/policy":
		if len(args) == 0 {
			fmt.Println(th.Info.Render("conflict policy: " + string(r.store.ConflictPolicy())))
			break
		}
		policy := model.ConflictPolicy(strings.ToLower(args[0]))
		if !policy.Valid() {
			fmt.Println(th.Warning.Render("usage: /policy rename|overwrite"))
			break
		}
		r.store.SetConflictPolicy(policy)
		fmt.Println(th.Info.Render("conflict policy: " + string(policy)))

	case "/char":
		r.characterCommand(args)

	case "/preset":
		r.presetCommand(args)

	case "/ext":
		r.extensionCommand(args)

	case "/theme":
		r.themeCommand(args)

	case "/persona":
		r.store.SetPersona(strings.TrimSpace(strings.TrimPrefix(input, "/persona")))
		fmt.Println(th.Info.Render("persona updated"))

	case "/console":
		for _, line := range r.console.Lines() {
			fmt.Println(th.Info.Render(line))
		}

	case "/clear", "/c":
		r.session.Clear()
		fmt.Println(th.Info.Render("history cleared"))

	default:
		fmt.Println(th.Warning.Render("unknown command, /help for help"))
	}
	return false
}

// printHelp lists the commands.
func (r *REPL) printHelp() {
	th := r.currentTheme()
	for _, line := range []string{
		"/import PATH            import an asset (png/webp/json)",
		"/policy [MODE]          show or set conflict policy (rename|overwrite)",
		"/char [ID]              list characters or select one",
		"/preset [ID]            list presets or select one",
		"/ext                    list extensions",
		"/ext toggle ID          enable/disable an extension",
		"/ext install URL [REF]  register a remote extension source",
		"/theme [ID]             list themes or apply one",
		"/persona TEXT           set the user persona",
		"/console                dump the console log",
		"/clear                  clear conversation history",
		"/quit                   exit",
	} {
		fmt.Println(th.Info.Render(line))
	}
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

func (r *REPL) characterCommand(args []string) {
	th := r.currentTheme()
	if len(args) == 0 {
		for _, c := range r.store.Characters() {
			fmt.Printf("%s  %s\n", th.Info.Render(c.ID), c.Name)
		}
		return
	}
	r.store.SelectCharacter(args[0])
	fmt.Println(th.Info.Render("character selected"))
}

func (r *REPL) presetCommand(args []string) {
	th := r.currentTheme()
	if len(args) == 0 {
		for _, p := range r.store.Presets() {
			fmt.Printf("%s  %s (%s, temp %.1f)\n", th.Info.Render(p.ID), p.Name, p.Model, p.Temperature)
		}
		return
	}
	r.store.SelectPreset(args[0])
	fmt.Println(th.Info.Render("preset selected"))
}

func (r *REPL) extensionCommand(args []string) {
	th := r.currentTheme()
	switch {
	case len(args) == 0:
		for _, e := range r.store.Extensions() {
			state := "off"
			if e.Enabled {
				state = "on"
			}
			fmt.Printf("%s  %s v%s [%s]  %s\n",
				th.Info.Render(e.ID), e.Name, e.Version, state,
				util.TruncateRunes(e.Description, 40))
		}

	case args[0] == "toggle" && len(args) > 1:
		r.store.ToggleExtension(args[1])
		fmt.Println(th.Info.Render("extension toggled"))

	case args[0] == "install" && len(args) > 1:
		ref := ""
		if len(args) > 2 {
			ref = args[2]
		}
		msg, err := r.store.InstallFromRemote(args[1], ref)
		if err != nil {
			fmt.Println(th.Error.Render(err.Error()))
			return
		}
		r.service.DispatchEvent(model.HookOnSettingsOpen)
		fmt.Println(th.Info.Render(msg))

	default:
		fmt.Println(th.Warning.Render("usage: /ext [toggle ID | install URL [REF]]"))
	}
}

func (r *REPL) themeCommand(args []string) {
	th := r.currentTheme()
	if len(args) == 0 {
		selected := r.store.SelectedThemeID()
		for _, t := range r.store.Themes() {
			marker := " "
			if t.ID == selected {
				marker = "*"
			}
			fmt.Printf("%s %s  %s\n", marker, th.Info.Render(t.ID), t.Name)
		}
		return
	}
	r.store.ApplyTheme(args[0])
	fmt.Println(r.currentTheme().Info.Render("theme applied"))
}
