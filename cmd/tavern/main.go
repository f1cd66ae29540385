// tavern-tui - A terminal client for character-driven LLM chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jeranaias/tavern-tui/internal/chat"
	"github.com/jeranaias/tavern-tui/internal/cli"
	"github.com/jeranaias/tavern-tui/internal/cloud"
	"github.com/jeranaias/tavern-tui/internal/config"
	"github.com/jeranaias/tavern-tui/internal/console"
	"github.com/jeranaias/tavern-tui/internal/extension"
	"github.com/jeranaias/tavern-tui/internal/library"
	"github.com/jeranaias/tavern-tui/internal/model"
	"github.com/jeranaias/tavern-tui/internal/prompt"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "version") {
		fmt.Printf("tavern %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	// Load configuration at startup
	cfgPath, err := config.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	c := console.New()
	store := library.NewStore(c)
	store.SetConflictPolicy(cfg.Policy())
	if cfg.Persona != "" {
		store.SetPersona(cfg.Persona)
	}

	hooks := extension.NewDispatcher(store, c)
	composer := prompt.NewComposer(store)
	client := cloud.NewClient(c)
	service := chat.NewService(store, hooks, composer, client)

	// Pick up config edits while running
	stopWatch, err := config.Watch(cfgPath, func(next *config.Config) {
		store.SetConflictPolicy(next.Policy())
		c.Log("config reloaded")
	})
	if err == nil {
		defer stopWatch()
	}

	service.DispatchEvent(model.HookOnAppStart)

	repl := cli.New(store, service, c)
	defer repl.Close()

	if err := repl.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
