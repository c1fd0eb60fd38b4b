// Package mdjson extracts a fenced ```json code block from free-form LLM
// text and decodes it into a Go value. Grounded on the single-block
// strippers used throughout the example corpus (Tangerg-lynx's
// stripMarkdownCodeBlock, clglavan-deep-research's TrimPrefix/TrimSuffix
// handling in agent.decide), generalized to the spec's "scan every fenced
// block, return the last json-tagged one" contract, since no example
// implements that multi-block scan directly.
package mdjson

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoMatchingCodeBlock is returned when the input contains no fenced code
// block tagged json.
type ErrNoMatchingCodeBlock struct {
	// Response is the original text, kept for diagnostics.
	Response string
}

func (e *ErrNoMatchingCodeBlock) Error() string {
	return "no matching markdown json code blocks found"
}

var fencePattern = regexp.MustCompile("(?s)```([A-Za-z0-9_+-]*)\\s*\\n?(.*?)```")

// ExtractLast scans text for every fenced code block and returns the body of
// the last one whose language tag is (case-insensitively) "json". When no
// language tag is present on any fence, none of them match — the tag must be
// literally "json" per §6.
func ExtractLast(text string) (string, error) {
	matches := fencePattern.FindAllStringSubmatch(text, -1)
	var last string
	found := false
	for _, m := range matches {
		lang := strings.ToLower(strings.TrimSpace(m[1]))
		if lang != "json" {
			continue
		}
		last = strings.TrimSpace(m[2])
		found = true
	}
	if !found {
		return "", &ErrNoMatchingCodeBlock{Response: text}
	}
	return last, nil
}

// Parse extracts the last fenced json block from text and unmarshals it
// into out (a pointer).
func Parse(text string, out any) error {
	raw, err := ExtractLast(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parse json block: %w", err)
	}
	return nil
}
