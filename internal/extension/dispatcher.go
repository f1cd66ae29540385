// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extension evaluates declarative extension hooks.
//
// Extensions are plain records; "executing" a hook is table-driven string
// concatenation gated by the extension's declared permissions. Nothing is
// ever run, so there is nothing to sandbox.
package extension

import (
	"strings"

	"github.com/jeranaias/tavern-tui/internal/console"
	"github.com/jeranaias/tavern-tui/internal/library"
	"github.com/jeranaias/tavern-tui/internal/model"
)

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatcher evaluates which enabled extensions respond to a hook and
// applies their declared text transforms.
type Dispatcher struct {
	store   *library.Store
	console *console.Console
}

// NewDispatcher creates a dispatcher over the store's extension list.
func NewDispatcher(store *library.Store, c *console.Console) *Dispatcher {
	return &Dispatcher{store: store, console: c}
}

// ActiveWithHook returns enabled extensions whose hook list contains the
// hook name, compared case-insensitively, in collection order.
func (d *Dispatcher) ActiveWithHook(hook string) []model.ExtensionPackage {
	var out []model.ExtensionPackage
	for _, ext := range d.store.Extensions() {
		if !ext.Enabled {
			continue
		}
		for _, h := range ext.Hooks {
			if strings.EqualFold(h, hook) {
				out = append(out, ext)
				break
			}
		}
	}
	return out
}

// Dispatch enumerates the extensions responding to an event. It is a pure
// notification with no text transform.
func (d *Dispatcher) Dispatch(event string) {
	for _, ext := range d.ActiveWithHook(event) {
		d.console.Logf("event dispatched event=%s ext=%s", event, ext.ID)
	}
}

// =============================================================================
// TEXT TRANSFORMS
// =============================================================================

// ApplyBeforeSend runs the beforeSend hook chain over outbound user text.
// Each granted extension prepends its prefix, so extensions compose
// left-to-right with every new prefix landing in front of all previous
// output. Requires the chatWrite permission.
func (d *Dispatcher) ApplyBeforeSend(text string) string {
	content := text
	for _, ext := range d.ActiveWithHook(model.HookBeforeSend) {
		if !d.requirePermission(ext, model.PermissionChatWrite) {
			continue
		}
		if strings.TrimSpace(ext.BeforeSendPrefix) != "" {
			content = ext.BeforeSendPrefix + content
			d.console.Logf("extension beforeSend id=%s applied", ext.ID)
		}
	}
	return content
}

// ApplyAfterReceive runs the afterReceive hook chain over assistant text.
// Each granted extension appends its suffix. Requires the chatRead
// permission.
func (d *Dispatcher) ApplyAfterReceive(text string) string {
	content := text
	for _, ext := range d.ActiveWithHook(model.HookAfterReceive) {
		if !d.requirePermission(ext, model.PermissionChatRead) {
			continue
		}
		if strings.TrimSpace(ext.AfterReceiveSuffix) != "" {
			content += ext.AfterReceiveSuffix
			d.console.Logf("extension afterReceive id=%s applied", ext.ID)
		}
	}
	return content
}

// requirePermission checks a permission grant. The "*" wildcard passes any
// check. A denial is logged but never an error: the extension's transform
// is skipped and the chain continues.
func (d *Dispatcher) requirePermission(ext model.ExtensionPackage, permission string) bool {
	for _, p := range ext.Permissions {
		if strings.EqualFold(p, permission) || strings.EqualFold(p, model.PermissionWildcard) {
			return true
		}
	}
	d.console.Logf("permission denied ext=%s need=%s", ext.ID, permission)
	return false
}
