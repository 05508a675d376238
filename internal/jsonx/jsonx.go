// Package jsonx extracts JSON objects from LLM response text. Models are
// instructed to reply with bare JSON but routinely wrap it in markdown code
// fences or surrounding prose, so decoding is a strict parse followed by a
// single bounded brace-extraction retry.
package jsonx

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoObject is returned when no JSON object can be located in the text.
var ErrNoObject = eris.New("jsonx: no JSON object found")

// Decode parses the first JSON object in text into v. Stage one strips
// code fences and trims to the outermost braces, then attempts a strict
// decode. Stage two scans for a balanced top-level object anywhere in the
// text. Anything beyond that is a malformed-response failure for the caller
// to absorb.
func Decode(text string, v any) error {
	cleaned := Clean(text)
	if cleaned != "" {
		if err := json.Unmarshal([]byte(cleaned), v); err == nil {
			return nil
		}
	}

	extracted, ok := extractObject(text)
	if !ok {
		return ErrNoObject
	}
	if err := json.Unmarshal([]byte(extracted), v); err != nil {
		return eris.Wrap(err, "jsonx: decode extracted object")
	}
	return nil
}

// Clean strips markdown code fences and trims the text to the outermost
// {...} span. Returns "" when no braces are present.
func Clean(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

// extractObject scans text for the first balanced top-level JSON object,
// ignoring braces inside string literals.
func extractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	for start >= 0 {
		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(text); i++ {
			c := text[i]
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				if inString {
					escaped = true
				}
			case '"':
				inString = !inString
			case '{':
				if !inString {
					depth++
				}
			case '}':
				if !inString {
					depth--
					if depth == 0 {
						return text[start : i+1], true
					}
				}
			}
		}
		// Unbalanced from this opening brace; try the next one.
		next := strings.Index(text[start+1:], "{")
		if next < 0 {
			break
		}
		start = start + 1 + next
	}
	return "", false
}
