package mdjson

import "testing"

func TestExtractLast_SingleBlock(t *testing.T) {
	text := "Here is the answer:\n```json\n{\"sufficient\": true}\n```\nThanks."
	raw, err := ExtractLast(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"sufficient": true}` {
		t.Fatalf("unexpected extracted block: %q", raw)
	}
}

func TestExtractLast_MultipleBlocks_LastWins(t *testing.T) {
	text := "```json\n{\"index\": 0}\n```\nOn reflection:\n```json\n{\"index\": 2}\n```"
	raw, err := ExtractLast(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"index": 2}` {
		t.Fatalf("expected last block to win, got %q", raw)
	}
}

func TestExtractLast_IgnoresNonJSONFences(t *testing.T) {
	text := "```text\nnot json\n```\n```json\n{\"queries\": [\"a\"]}\n```"
	raw, err := ExtractLast(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"queries": ["a"]}` {
		t.Fatalf("unexpected extracted block: %q", raw)
	}
}

func TestExtractLast_NoCodeBlock(t *testing.T) {
	_, err := ExtractLast("just some prose, no fences here")
	if err == nil {
		t.Fatalf("expected error")
	}
	var target *ErrNoMatchingCodeBlock
	if !asNoMatch(err, &target) {
		t.Fatalf("expected ErrNoMatchingCodeBlock, got %T: %v", err, err)
	}
	if target.Response == "" {
		t.Fatalf("expected original response to be preserved for diagnostics")
	}
}

func asNoMatch(err error, target **ErrNoMatchingCodeBlock) bool {
	e, ok := err.(*ErrNoMatchingCodeBlock)
	if !ok {
		return false
	}
	*target = e
	return true
}

func TestParse_DecodesIntoStruct(t *testing.T) {
	type sufficiency struct {
		Sufficient bool `json:"sufficient"`
	}
	var out sufficiency
	err := Parse("```json\n{\"sufficient\": true}\n```", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Sufficient {
		t.Fatalf("expected sufficient=true")
	}
}
