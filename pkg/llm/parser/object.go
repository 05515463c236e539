// Package parser provides utilities for making sense of raw LLM output:
// locating candidate objects embedded in free text and separating <thinking>
// tags from response content.
package parser

import "strings"

// scanState tracks where the object scanner is relative to string literals.
type scanState int

const (
	scanNormal   scanState = iota // outside any string literal
	scanInString                  // inside a double-quoted literal
	scanEscaped                   // immediately after a backslash inside a literal
)

// ExtractObject returns the first balanced object substring in raw: the text
// from the first '{' through the '}' that returns brace depth to zero. Braces
// inside double-quoted string literals do not affect depth; a backslash
// escapes exactly the next character, and only an unescaped '"' toggles
// string mode (single quotes are ordinary characters). The second return is
// false when raw is empty, contains no '{', or the object never closes.
//
// ExtractObject is a brace matcher, not a grammar validator: the returned
// candidate may still be rejected by a structured parse. Model replies wrap
// objects in prose and markdown fences, append afterthoughts, and sometimes
// emit several objects in sequence; everything after the first balanced
// object is ignored. The scan is a single left-to-right pass with no
// backtracking.
func ExtractObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	state := scanNormal

	for i := start; i < len(raw); i++ {
		ch := raw[i]

		switch state {
		case scanEscaped:
			state = scanInString

		case scanInString:
			switch ch {
			case '\\':
				state = scanEscaped
			case '"':
				state = scanNormal
			}

		default:
			switch ch {
			case '"':
				state = scanInString
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return raw[start : i+1], true
				}
			}
		}
	}

	// Depth never returned to zero: unterminated object.
	return "", false
}
