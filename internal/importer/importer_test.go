// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package importer

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// buildPNG assembles a minimal PNG byte stream from the given chunks. CRCs
// are zeroed; the extractor skips them without validation.
func buildPNG(chunks ...[]byte) []byte {
	out := append([]byte{}, pngSignature...)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// chunk encodes one PNG chunk: 4-byte big-endian length, type, data, CRC.
func chunk(chunkType string, data []byte) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	out = append(out, chunkType...)
	out = append(out, data...)
	out = append(out, 0, 0, 0, 0)
	return out
}

// textChunk builds a tEXt chunk with a NUL-separated keyword and text.
func textChunk(keyword, text string) []byte {
	data := append([]byte(keyword), 0)
	data = append(data, text...)
	return chunk("tEXt", data)
}

const cardJSON = `{"name":"Aria","description":"a wandering bard","first_mes":"Hi there"}`

// =============================================================================
// PNG EXTRACTION
// =============================================================================

func TestClassifyPNGBase64Payload(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(cardJSON))
	data := buildPNG(
		chunk("IHDR", make([]byte, 13)),
		textChunk("chara", encoded),
		chunk("IEND", nil),
	)

	asset, err := Classify("aria.png", data)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Kind != KindCharacter {
		t.Fatalf("expected character, got %s", asset.Kind)
	}
	if asset.Character.Name != "Aria" {
		t.Errorf("name = %q, want Aria", asset.Character.Name)
	}
	if asset.Character.FirstMessage != "Hi there" {
		t.Errorf("first message = %q", asset.Character.FirstMessage)
	}
	if asset.Character.AvatarPath != "aria.png" {
		t.Errorf("avatar path = %q", asset.Character.AvatarPath)
	}
}

func TestClassifyPNGRawJSONPayload(t *testing.T) {
	// A chara_card_v2 chunk may carry raw JSON instead of base64.
	data := buildPNG(
		chunk("IHDR", make([]byte, 13)),
		textChunk("chara_card_v2", cardJSON),
		chunk("IEND", nil),
	)

	asset, err := Classify("aria.png", data)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Character.Name != "Aria" {
		t.Errorf("name = %q, want Aria", asset.Character.Name)
	}
}

func TestClassifyPNGWithoutPayload(t *testing.T) {
	data := buildPNG(
		chunk("IHDR", make([]byte, 13)),
		textChunk("Comment", "just a comment"),
		chunk("IEND", nil),
	)

	_, err := Classify("plain.png", data)
	if !errors.Is(err, ErrNoEmbeddedPayload) {
		t.Fatalf("expected ErrNoEmbeddedPayload, got %v", err)
	}
}

func TestClassifyPNGTruncatedChunk(t *testing.T) {
	// A chunk whose declared length runs past the buffer aborts the walk.
	bogus := make([]byte, 4)
	binary.BigEndian.PutUint32(bogus, 1<<30)
	data := append(buildPNG(), bogus...)
	data = append(data, "tEXt"...)

	_, err := Classify("broken.png", data)
	if !errors.Is(err, ErrNoEmbeddedPayload) {
		t.Fatalf("expected ErrNoEmbeddedPayload, got %v", err)
	}
}

// =============================================================================
// WEBP EXTRACTION
// =============================================================================

func TestClassifyWebPJSONPayload(t *testing.T) {
	data := []byte("RIFF....WEBPVP8 junk chara\x00" + cardJSON + "\x00trailer")

	asset, err := Classify("aria.webp", data)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Character.Name != "Aria" {
		t.Errorf("name = %q, want Aria", asset.Character.Name)
	}
}

func TestClassifyWebPBase64Payload(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(cardJSON))
	data := []byte("RIFFWEBP chara_card_v2\x00" + encoded + "\x00")

	asset, err := Classify("aria.webp", data)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Character.Name != "Aria" {
		t.Errorf("name = %q, want Aria", asset.Character.Name)
	}
}

func TestClassifyWebPWithoutPayload(t *testing.T) {
	_, err := Classify("plain.webp", []byte("RIFF....WEBP no card here"))
	if !errors.Is(err, ErrNoEmbeddedPayload) {
		t.Fatalf("expected ErrNoEmbeddedPayload, got %v", err)
	}
}

// =============================================================================
// JSON CLASSIFICATION ORDER
// =============================================================================

func TestClassifyJSONCharacter(t *testing.T) {
	asset, err := Classify("card.json", []byte(cardJSON))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Kind != KindCharacter {
		t.Fatalf("kind = %s, want character", asset.Kind)
	}
}

func TestClassifyJSONCharacterV2Wrapper(t *testing.T) {
	src := `{"spec":"chara_card_v2","data":{"name":"Mira","description":"quiet"}}`
	asset, err := Classify("mira.json", []byte(src))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Kind != KindCharacter {
		t.Fatalf("kind = %s, want character", asset.Kind)
	}
	if asset.Character.Name != "Mira" {
		t.Errorf("name = %q, want Mira", asset.Character.Name)
	}
}

func TestClassifyJSONThemeBeatsWorldBook(t *testing.T) {
	// An object with both "theme" and "entries" keys classifies as a
	// theme; the probe order decides, not key count.
	src := `{"theme":{"primary":"#112233"},"entries":[]}`
	asset, err := Classify("dual.json", []byte(src))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Kind != KindTheme {
		t.Fatalf("kind = %s, want theme", asset.Kind)
	}
	if asset.Theme.Tokens["primary"] != "#112233" {
		t.Errorf("tokens = %v", asset.Theme.Tokens)
	}
}

func TestClassifyJSONThemeByFilename(t *testing.T) {
	// The filename probe claims any JSON shape, including a bare array,
	// yielding an empty theme.
	asset, err := Classify("midnight_theme.json", []byte(`[1,2,3]`))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Kind != KindTheme {
		t.Fatalf("kind = %s, want theme", asset.Kind)
	}
	if len(asset.Theme.Tokens) != 0 {
		t.Errorf("expected empty tokens, got %v", asset.Theme.Tokens)
	}
	if asset.Theme.Name != "midnight_theme" {
		t.Errorf("name = %q", asset.Theme.Name)
	}
}

func TestClassifyJSONExtension(t *testing.T) {
	src := `{"manifest":{"id":"ext-1","name":"Prefixer","version":"2.0.0","hooks":["beforeSend"],"permissions":["chatWrite"],"beforeSendPrefix":"[OOC] "}}`
	asset, err := Classify("prefixer.json", []byte(src))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Kind != KindExtension {
		t.Fatalf("kind = %s, want extension", asset.Kind)
	}
	ext := asset.Extension
	if ext.ID != "ext-1" || ext.Version != "2.0.0" {
		t.Errorf("manifest fields not preserved: %+v", ext)
	}
	if ext.Enabled {
		t.Error("imported extensions must start disabled")
	}
	if ext.BeforeSendPrefix != "[OOC] " {
		t.Errorf("prefix = %q", ext.BeforeSendPrefix)
	}
}

func TestClassifyJSONWorldBook(t *testing.T) {
	src := `{"name":"Forest","entries":[
		{"keys":["elf","elves"],"content":"Elves live in the forest."},
		{"key":"dwarf","entry":"Dwarves mine the hills.","enabled":false}
	]}`
	asset, err := Classify("forest.json", []byte(src))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Kind != KindWorldBook {
		t.Fatalf("kind = %s, want worldbook", asset.Kind)
	}
	wb := asset.WorldBook
	if len(wb.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(wb.Entries))
	}
	if wb.Entries[0].UID != "0" || wb.Entries[1].UID != "1" {
		t.Errorf("uids default to index: %q %q", wb.Entries[0].UID, wb.Entries[1].UID)
	}
	if !wb.Entries[0].Enabled {
		t.Error("entries default to enabled")
	}
	if wb.Entries[1].Enabled {
		t.Error("explicit enabled=false must stick")
	}
	if got := wb.Entries[1].Keys; len(got) != 1 || got[0] != "dwarf" {
		t.Errorf("single key fallback failed: %v", got)
	}
	if wb.Entries[1].Content != "Dwarves mine the hills." {
		t.Errorf("entry content alias failed: %q", wb.Entries[1].Content)
	}
}

func TestClassifyJSONRegexSet(t *testing.T) {
	src := `{"name":"Cleanup","regex":[
		{"find":"\\*[^*]*\\*","replace":"","scope":"assistant"},
		{"noFind":"ignored"}
	]}`
	asset, err := Classify("cleanup.json", []byte(src))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Kind != KindRegexSet {
		t.Fatalf("kind = %s, want regex", asset.Kind)
	}
	rules := asset.RegexSet.Rules
	if len(rules) != 1 {
		t.Fatalf("rules = %d, want 1 (elements without find are dropped)", len(rules))
	}
	if rules[0].ApplyTo != "assistant" {
		t.Errorf("scope alias failed: %q", rules[0].ApplyTo)
	}
}

func TestClassifyJSONRegexSetSynthesizedRule(t *testing.T) {
	// A "rules" key with no usable elements still yields one rule built
	// from root-level fields.
	asset, err := Classify("single.json", []byte(`{"rules":[],"find":"foo","replace":"bar"}`))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	rules := asset.RegexSet.Rules
	if len(rules) != 1 || rules[0].FindRegex != "foo" || rules[0].ReplaceString != "bar" {
		t.Fatalf("synthesized rule = %+v", rules)
	}
}

func TestClassifyJSONPreset(t *testing.T) {
	asset, err := Classify("fast.json", []byte(`{"temp":0.3,"prompt":"Be terse."}`))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Kind != KindPreset {
		t.Fatalf("kind = %s, want preset", asset.Kind)
	}
	p := asset.Preset
	if p.Temperature != 0.3 {
		t.Errorf("temperature = %v", p.Temperature)
	}
	if p.Model != "gpt-4o-mini" {
		t.Errorf("model default = %q", p.Model)
	}
	if p.SystemPrompt != "Be terse." {
		t.Errorf("system prompt = %q", p.SystemPrompt)
	}
	if p.Name != "fast" {
		t.Errorf("name falls back to file stem, got %q", p.Name)
	}
}

func TestClassifyJSONArrayOfRules(t *testing.T) {
	src := `[{"regex":"a+","replace":"A"},{"find":"b","replace":"B"}]`
	asset, err := Classify("rules.json", []byte(src))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if asset.Kind != KindRegexSet {
		t.Fatalf("kind = %s, want regex", asset.Kind)
	}
	if len(asset.RegexSet.Rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(asset.RegexSet.Rules))
	}
}

func TestClassifyJSONUnrecognized(t *testing.T) {
	if _, err := Classify("what.json", []byte(`{"foo":"bar"}`)); !errors.Is(err, ErrUnrecognizedJSONKind) {
		t.Errorf("object: expected ErrUnrecognizedJSONKind, got %v", err)
	}
	if _, err := Classify("nums.json", []byte(`[1,2,3]`)); !errors.Is(err, ErrUnrecognizedJSONKind) {
		t.Errorf("array: expected ErrUnrecognizedJSONKind, got %v", err)
	}
	if _, err := Classify("bad.json", []byte(`{broken`)); !errors.Is(err, ErrUnrecognizedJSON) {
		t.Errorf("malformed: expected ErrUnrecognizedJSON, got %v", err)
	}
	if _, err := Classify("scalar.json", []byte(`42`)); !errors.Is(err, ErrUnrecognizedJSON) {
		t.Errorf("scalar: expected ErrUnrecognizedJSON, got %v", err)
	}
}

func TestClassifyUnsupportedExtension(t *testing.T) {
	if _, err := Classify("card.txt", []byte("hello")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestClassifyExtensionIsCaseInsensitive(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(cardJSON))
	data := buildPNG(textChunk("chara", encoded), chunk("IEND", nil))
	if _, err := Classify("ARIA.PNG", data); err != nil {
		t.Fatalf("uppercase extension rejected: %v", err)
	}
}
