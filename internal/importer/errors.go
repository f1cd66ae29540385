// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package importer

import "errors"

// =============================================================================
// ERRORS
// =============================================================================

// Import failures are either validation errors (the file could never be
// handled) or parse errors (the bytes did not yield a usable asset). Both
// surface as the import's result; the library is left unmodified.
var (
	// ErrUnsupportedType indicates a filename extension the importer does
	// not handle at all.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrNoEmbeddedPayload indicates a PNG/WebP without a chara payload.
	ErrNoEmbeddedPayload = errors.New("no embedded character payload")

	// ErrUnrecognizedJSON indicates bytes that do not parse as JSON, or a
	// JSON root that is neither an object nor an array.
	ErrUnrecognizedJSON = errors.New("unrecognized JSON structure")

	// ErrUnrecognizedJSONKind indicates valid JSON that no probe claimed.
	ErrUnrecognizedJSONKind = errors.New("unrecognized JSON type")
)
