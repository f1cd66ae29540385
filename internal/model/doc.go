// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the asset library and chat.
//
// Every importable asset kind (character cards, world books, regex rule
// sets, presets, extension packages, themes) is a plain immutable value
// record. The library store owns mutable collections of these records;
// nothing in this package carries behavior beyond small helpers.
//
// # Key Types
//
//   - CharacterCard: persona definition imported from PNG/WebP/JSON
//   - WorldBook / WorldEntry: keyword-triggered context injection
//   - RegexRuleSet / RegexRule: ordered assistant-output rewrite rules
//   - ExtensionPackage: declarative hook/permission metadata (no code)
//   - ChatMessage / NetworkMessage: session history and wire messages
//   - ProviderConfig: OpenAI-compatible endpoint configuration
package model
