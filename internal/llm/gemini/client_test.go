package gemini

import (
	"strings"
	"testing"

	"paragraph-backend/internal/llm"
)

func TestDecodeObjectPlainJSON(t *testing.T) {
	obj := DecodeObject(`{"claim": "x", "score": 3}`)
	if llm.IsParseFailure(obj) {
		t.Fatalf("unexpected parse failure: %v", obj)
	}
	if obj["claim"] != "x" {
		t.Fatalf("claim = %v", obj["claim"])
	}
}

func TestDecodeObjectStripsFences(t *testing.T) {
	raw := "```json\n{\"ok\": true}\n```"
	obj := DecodeObject(raw)
	if llm.IsParseFailure(obj) {
		t.Fatalf("unexpected parse failure: %v", obj)
	}
	if obj["ok"] != true {
		t.Fatalf("ok = %v", obj["ok"])
	}
}

func TestDecodeObjectFenceWithoutLanguageTag(t *testing.T) {
	obj := DecodeObject("```\n{\"a\":1}\n```")
	if llm.IsParseFailure(obj) {
		t.Fatalf("unexpected parse failure: %v", obj)
	}
}

func TestDecodeObjectInvalidJSON(t *testing.T) {
	obj := DecodeObject("the model rambled instead")
	if !llm.IsParseFailure(obj) {
		t.Fatalf("expected parse failure, got %v", obj)
	}
	if obj["raw"] != "the model rambled instead" {
		t.Fatalf("raw = %v", obj["raw"])
	}
	if obj["error_detail"] == "" {
		t.Fatal("expected error_detail")
	}
}

func TestDecodeObjectNonObjectJSON(t *testing.T) {
	obj := DecodeObject(`["a", "b"]`)
	if !llm.IsParseFailure(obj) {
		t.Fatalf("expected parse failure, got %v", obj)
	}
}

func TestDecodeObjectTruncatesRaw(t *testing.T) {
	raw := strings.Repeat("x", llm.MaxRawLen+500)
	obj := DecodeObject(raw)
	got, _ := obj["raw"].(string)
	if len(got) != llm.MaxRawLen {
		t.Fatalf("raw length = %d, want %d", len(got), llm.MaxRawLen)
	}
}
