// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package library owns every imported collection and the session's
// selection state.
//
// The store is the single writer for all six collections (characters,
// world books, regex rule sets, presets, extensions, themes) plus the
// selected theme/character/preset and persona text. Reads hand out
// snapshot copies so a reader never observes a collection mid-update.
//
// Name collisions during import are settled by the active conflict policy,
// read at the moment each import executes:
//
//   - rename: the new item is stored under "name (n)" and both coexist
//   - overwrite: the item whose name equals the incoming source name is
//     replaced in place, preserving position
package library
