// Package jsonextract pulls a JSON value out of free-form model output.
// Model responses frequently wrap JSON in markdown code fences or surround
// it with prose; callers need the structured payload or a clear miss.
package jsonextract

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON reports that no parseable JSON value was found in the input.
var ErrNoJSON = errors.New("no json value found in text")

// Extract strips markdown code-fence markers from raw, then tries a strict
// parse into v. If that fails it retries on the greedy {...} brace span.
// A second failure is ErrNoJSON. Callers must discard v on error; a failed
// decode may leave partial fields set.
func Extract(raw string, v any) error {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	span, ok := braceSpan(cleaned)
	if !ok {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(span), v); err != nil {
		return ErrNoJSON
	}
	return nil
}

// braceSpan returns the substring from the first '{' through the last '}',
// mirroring a greedy regex match. Multiple objects in the text yield one
// span covering them all, which then fails to parse; that is intentional.
func braceSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(s, '}')
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}
