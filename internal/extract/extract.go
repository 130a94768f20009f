// Package extract coerces free-form model output into structured JSON.
//
// Models are not guaranteed to honor "return only JSON" instructions: output
// arrives wrapped in markdown fences, prefixed with commentary, with trailing
// commas, or as several adjacent objects with no enclosing array. All of the
// recovery heuristics live here, behind a single entry point, instead of
// being scattered as ad hoc regexes across call sites.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Result is the outcome of a structured extraction attempt.
// Extraction never fails: when no strategy yields valid JSON, Raw carries
// the cleaned text and Structured is false so the caller can decide whether
// to issue a corrective follow-up request or abort.
type Result struct {
	// Value is the parsed JSON, normalized, when Structured is true.
	Value json.RawMessage

	// Raw is the cleaned input text. Always set.
	Raw string

	// Structured reports whether Value holds parsed JSON.
	Structured bool
}

// strategy attempts one recovery heuristic against cleaned text.
// Each strategy is independent and unit-testable; Structured runs them in
// order and stops at the first success.
type strategy func(cleaned string) (json.RawMessage, bool)

// Adjacency recovery runs before span extraction: a balanced-span scan over
// {"a":1}{"b":2} would succeed with just the first object, silently dropping
// the rest, while the adjacency join turns it into the full array.
var strategies = []strategy{
	parseDirect,
	parseAdjacentObjects,
	parseFirstSpan,
}

// Structured extracts a JSON value from raw model output.
func Structured(raw string) Result {
	cleaned := stripTrailingCommas(stripCodeFences(raw))

	for _, try := range strategies {
		if v, ok := try(cleaned); ok {
			return Result{Value: v, Raw: cleaned, Structured: true}
		}
	}
	return Result{Raw: cleaned}
}

// stripCodeFences removes a surrounding markdown code fence, optionally
// tagged (```json). Returns the input trimmed if no fence is present.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}

	// Drop the opening fence line (``` or ```json).
	lines = lines[1:]
	// Drop the trailing fence if present.
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// trailingCommaPattern matches a comma at the end of a line whose next
// non-whitespace character closes the enclosing bracket, a common model
// artifact. Commas separating fields or elements are left alone, so valid
// pretty-printed JSON passes through untouched.
var trailingCommaPattern = regexp.MustCompile(`,(\s*[\r\n]\s*[\]}])`)

func stripTrailingCommas(content string) string {
	return trailingCommaPattern.ReplaceAllString(content, "$1")
}

// parseDirect attempts to parse the whole cleaned text as one JSON value.
func parseDirect(cleaned string) (json.RawMessage, bool) {
	return tryParse(cleaned)
}

// parseFirstSpan extracts the first balanced bracketed or braced span and
// parses only that, recovering from commentary before or after the JSON.
// Balance is tracked with string awareness so brackets inside JSON strings
// and stray closers in surrounding commentary do not skew the span.
func parseFirstSpan(cleaned string) (json.RawMessage, bool) {
	start := strings.IndexAny(cleaned, "[{")
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				return tryParse(cleaned[start : i+1])
			}
		}
	}
	return nil, false
}

// adjacentObjectPattern matches the boundary between two concatenated
// top-level objects, tolerating whitespace between them.
var adjacentObjectPattern = regexp.MustCompile(`\}\s*\{`)

// parseAdjacentObjects handles a backend failure mode where multiple JSON
// objects are emitted back to back without a wrapping array ({"a":1}{"b":2}).
// The boundaries are joined with commas and the whole text is wrapped in
// brackets, yielding an array.
func parseAdjacentObjects(cleaned string) (json.RawMessage, bool) {
	if !adjacentObjectPattern.MatchString(cleaned) {
		return nil, false
	}
	joined := adjacentObjectPattern.ReplaceAllString(cleaned, "},{")
	return tryParse("[" + strings.TrimSpace(joined) + "]")
}

// tryParse parses and re-marshals a candidate so callers always receive
// normalized JSON regardless of the input's formatting.
func tryParse(candidate string) (json.RawMessage, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil, false
	}

	var parsed any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, false
	}
	normalized, err := json.Marshal(parsed)
	if err != nil {
		return nil, false
	}
	return normalized, true
}
