// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package importer

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
)

// =============================================================================
// EMBEDDED CHARACTER PAYLOADS
// =============================================================================

// Character cards travel inside image metadata keyed "chara" (v1, base64)
// or "chara_card_v2". Both keys are followed by a NUL separator.
const (
	charaKeyV1 = "chara\x00"
	charaKeyV2 = "chara_card_v2\x00"
)

// pngSignatureLen is the fixed 8-byte PNG file signature skipped before
// chunk walking begins.
const pngSignatureLen = 8

// extractCharaFromPNG walks PNG chunks looking for a tEXt/iTXt chunk whose
// content starts with a chara key. Each chunk is a 4-byte big-endian
// length, 4-byte ASCII type, length bytes of data, and a 4-byte CRC that
// is skipped. Scanning stops at the first match. A malformed or truncated
// chunk header aborts the walk; that is "not found", not a hard error.
func extractCharaFromPNG(data []byte) (string, bool) {
	offset := pngSignatureLen
	for offset+12 < len(data) {
		length := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		if length < 0 {
			break
		}
		chunkType := string(data[offset+4 : offset+8])
		dataStart := offset + 8
		dataEnd := dataStart + length
		if dataEnd < dataStart || dataEnd+4 > len(data) {
			break
		}

		if chunkType == "tEXt" || chunkType == "iTXt" {
			raw := string(data[dataStart:dataEnd])
			if strings.HasPrefix(raw, charaKeyV1) || strings.HasPrefix(raw, charaKeyV2) {
				if i := strings.IndexByte(raw, 0); i >= 0 {
					return decodePayload(raw[i+1:]), true
				}
			}
		}
		offset = dataEnd + 4
	}
	return "", false
}

// extractCharaFromWebP scans the whole buffer, decoded byte-per-char, for a
// chara key. The payload runs from the key's end either up to the last '}'
// in the remainder (JSON-shaped) or up to the next NUL.
func extractCharaFromWebP(data []byte) (string, bool) {
	text := string(data)
	for _, key := range []string{charaKeyV1, charaKeyV2} {
		idx := strings.Index(text, key)
		if idx < 0 {
			continue
		}
		tail := text[idx+len(key):]
		if end := strings.LastIndexByte(tail, '}'); end > 0 {
			return decodePayload(tail[:end+1]), true
		}
		end := strings.IndexByte(tail, 0)
		if end <= 0 {
			end = len(tail)
		}
		return decodePayload(tail[:end]), true
	}
	return "", false
}

// decodePayload normalizes an extracted payload to JSON text. Payloads that
// already look like JSON pass through; anything else is tried as base64,
// falling back to the raw trimmed text when decoding fails.
func decodePayload(payload string) string {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return trimmed
	}
	if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
		return string(decoded)
	}
	return trimmed
}
