// Package extract recovers JSON objects from raw model output.
//
// LLM output is not guaranteed to be pure JSON, so extraction is maximally
// permissive: it tries a direct parse, then the contents of a fenced code
// block, then the first-{ to last-} substring. Irrecoverable output yields an
// empty map and a warning log, never an error.
package extract

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tenderscope/tenderscope/pkg/models"
)

// Fence regexes compiled once at package init.
var (
	reFenceOpen  = regexp.MustCompile("(?i)```(?:json)?[ \t]*\r?\n?")
	reFenceClose = regexp.MustCompile("\r?\n?```")
)

// Object recovers a JSON object from raw model text. The returned map is
// never nil; an empty map marks an irrecoverable parse failure.
func Object(raw string) models.StepResult {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.StepResult{}
	}

	// Strategy 1: the whole string is already JSON.
	if m, ok := parseObject(trimmed); ok {
		return m
	}

	// Strategy 2: a fenced code block, optionally tagged "json".
	if inner, ok := fencedBlock(trimmed); ok {
		if m, ok := parseObject(inner); ok {
			return m
		}
	}

	// Strategy 3: first '{' to last '}', inclusive.
	if span, ok := braceSpan(trimmed); ok {
		if m, ok := parseObject(span); ok {
			return m
		}
	}

	slog.Warn("unparseable model output", "length", len(raw), "preview", preview(trimmed))
	return models.StepResult{}
}

func parseObject(s string) (models.StepResult, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

// fencedBlock returns the contents of the first triple-backtick block.
func fencedBlock(s string) (string, bool) {
	open := reFenceOpen.FindStringIndex(s)
	if open == nil {
		return "", false
	}
	rest := s[open[1]:]
	end := reFenceClose.FindStringIndex(rest)
	if end == nil {
		return "", false
	}
	return strings.TrimSpace(rest[:end[0]]), true
}

// braceSpan returns the substring from the first '{' to the last '}'.
func braceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func preview(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
