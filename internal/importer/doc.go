// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package importer turns raw uploaded bytes into typed library assets.
//
// Import is format-sniffing: there is no explicit file-type tag beyond the
// filename extension. PNG and WebP payloads are scanned for embedded
// character-card metadata; JSON payloads are classified by ordered
// heuristic probing where the first matching probe wins. The probe order
// is a contract (several probes overlap): character, theme, extension,
// world book, regex set, preset, then array-of-rules.
//
// The importer is pure: it never touches the library. Name-conflict
// resolution and collection placement happen in the library store.
package importer
