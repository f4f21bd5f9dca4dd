package client

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoJSONSpan = errors.New("no balanced JSON span in text")

// ExtractBalanced returns the first balanced {...} or [...] span in s.
// Models are instructed to answer with a lone JSON object or array, but in
// practice the payload arrives wrapped in prose or markdown fences, so the
// boundary is lenient: scan to the first opening bracket, then match depth,
// honoring string literals and escapes.
func ExtractBalanced(s string) (string, bool) {
	start := -1
	var open, closing rune
	for i, r := range s {
		if r == '{' || r == '[' {
			start = i
			open = r
			closing = '}'
			if r == '[' {
				closing = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i, r := range s[start:] {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[start : start+i+1], true
			}
		}
	}
	return "", false
}

// DecodeFirst walks response parts in order, extracts the first balanced JSON
// span from each and unmarshals it into v. The first part that yields a clean
// parse wins; parts that fail are skipped. Returns an error only when every
// part fails; callers translate that into their component's fallback.
func DecodeFirst(parts []string, v any) error {
	var lastErr error = errNoJSONSpan
	for _, part := range parts {
		span, ok := ExtractBalanced(part)
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(span), v); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// FirstNumber extracts the first decimal number from the parts, for the rare
// call sites that ask the model to answer with a bare number.
func FirstNumber(parts []string) (float64, bool) {
	for _, part := range parts {
		if n, ok := scanNumber(part); ok {
			return n, true
		}
	}
	return 0, false
}

func scanNumber(s string) (float64, bool) {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}
	end := start
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	num := strings.TrimSuffix(s[start:end], ".")
	var f float64
	if err := json.Unmarshal([]byte(num), &f); err != nil {
		return 0, false
	}
	return f, true
}
