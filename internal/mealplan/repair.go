package mealplan

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// excerptLen bounds the head/tail slices carried by MalformedResponseError.
const excerptLen = 400

// MalformedResponseError means the raw model output could not be coerced into
// a JSON object by any repair heuristic. It never carries partial data.
type MalformedResponseError struct {
	Cause error
	Head  string
	Tail  string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v (head: %q, tail: %q)", e.Cause, e.Head, e.Tail)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

var (
	// ,} or ,] with optional whitespace between.
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	// A bare double quote between two word characters, e.g. tomorrow"s.
	innerQuoteRe = regexp.MustCompile(`(\w)"(\w)`)
)

// Decoder recovers a JSON object tree from raw model output. Textual repairs
// are a last resort: a strict parse is always attempted first, and every
// heuristic that fires is logged.
type Decoder struct {
	// LenientQuotes rewrites all single quotes to double quotes before the
	// repair parse. It replaces the possessive-quote fix, which would undo it.
	LenientQuotes bool
}

// Decode turns a raw model-output string into a parsed JSON object.
// It fails with *MalformedResponseError when no repair succeeds.
func (d Decoder) Decode(raw string) (map[string]any, error) {
	t := strings.TrimSpace(raw)
	t = stripFences(t)
	t = extractObject(t)

	if tree, err := parseObject(t); err == nil {
		return tree, nil
	}

	repaired := trailingCommaRe.ReplaceAllString(t, "$1")
	if d.LenientQuotes {
		repaired = strings.ReplaceAll(repaired, "'", `"`)
		repaired = trailingCommaRe.ReplaceAllString(repaired, "$1")
	} else {
		repaired = innerQuoteRe.ReplaceAllString(repaired, "$1'$2")
	}

	if tree, err := parseObject(repaired); err == nil {
		log.Printf("Repaired model response with textual heuristics (trailing commas / quotes)")
		return tree, nil
	}

	balanced := balanceBraces(repaired)
	tree, err := parseObject(balanced)
	if err != nil {
		head, tail := excerpt(t)
		return nil, &MalformedResponseError{Cause: err, Head: head, Tail: tail}
	}

	log.Printf("Repaired model response by rebalancing braces (%d -> %d chars)", len(t), len(balanced))
	return tree, nil
}

// stripFences removes triple-backtick code fences and an optional leading
// "json" language tag.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.Trim(s, "`")
	if strings.HasPrefix(strings.ToLower(s), "json") {
		s = s[4:]
	}
	return strings.TrimSpace(s)
}

// extractObject returns the substring spanning the first '{' to the last '}',
// discarding any leading or trailing commentary. Without such a pair the
// trimmed input is kept as-is.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end != -1 && end > start {
		return strings.TrimSpace(s[start : end+1])
	}
	return strings.TrimSpace(s)
}

// parseObject runs a strict JSON parse and requires an object at the top level.
func parseObject(s string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	tree, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level JSON value is not an object")
	}
	return tree, nil
}

// balanceBraces truncates the input at the point where a top-level object
// first completes (nesting depth back to zero), dropping trailing garbage,
// then appends synthetic closers for any still-unbalanced brackets or braces.
func balanceBraces(s string) string {
	depth := 0
	cut := 0
	lastClose := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			lastClose = i + 1
			if depth == 0 && cut == 0 {
				cut = i + 1
			}
		case ']':
			lastClose = i + 1
		}
	}
	if cut == 0 {
		// The object never closed; keep everything up to the last closer so
		// appended braces land after real content, not after garbage.
		cut = lastClose
	}
	if cut > 0 {
		s = s[:cut]
	}
	for strings.Count(s, "[") > strings.Count(s, "]") {
		s += "]"
	}
	for strings.Count(s, "{") > strings.Count(s, "}") {
		s += "}"
	}
	return s
}

func excerpt(s string) (head, tail string) {
	if len(s) <= excerptLen {
		return s, ""
	}
	return s[:excerptLen], s[len(s)-excerptLen:]
}
