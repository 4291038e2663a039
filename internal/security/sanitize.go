// Package security provides input sanitization, validation, per-client rate
// limiting, and abuse detection for the public lead-intake endpoints. All
// submitted form data passes through this package before it is persisted or
// forwarded anywhere.
package security

import (
	"regexp"
	"strings"
)

// MaxFieldLength is the maximum length, in characters, of any sanitized
// string field.
const MaxFieldLength = 500

// Pre-compiled regular expressions for performance.
var (
	// reScriptScheme matches javascript: URL schemes anywhere in the input.
	reScriptScheme = regexp.MustCompile(`(?i)javascript:`)

	// reEventAttr matches inline event-handler attribute patterns (onclick=, onload=, ...).
	reEventAttr = regexp.MustCompile(`(?i)\bon\w+\s*=`)
)

// stripChars removes angle brackets and quote characters that could open
// tags or break out of attribute values.
var stripChars = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "`", "")

// SanitizeString strips markup and script-injection vectors from a submitted
// string and truncates it to MaxFieldLength characters. The result is a fixed
// point: sanitizing an already-sanitized string returns it unchanged.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)

	// Removing one occurrence can splice a new one together, so strip until
	// the value stops changing.
	for {
		next := stripChars.Replace(s)
		next = reScriptScheme.ReplaceAllString(next, "")
		next = reEventAttr.ReplaceAllString(next, "")

		if next == s {
			break
		}

		s = next
	}

	if runes := []rune(s); len(runes) > MaxFieldLength {
		s = string(runes[:MaxFieldLength])
	}

	return strings.TrimSpace(s)
}

// SanitizeMap applies SanitizeString to every string leaf of an arbitrarily
// nested map/slice structure, as produced by decoding a JSON request body.
// Non-string leaves pass through unchanged.
func SanitizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = sanitizeValue(v)
	}

	return out
}

// sanitizeValue sanitizes a single decoded JSON value, recursing into maps
// and slices.
func sanitizeValue(v any) any {
	switch val := v.(type) {
	case string:
		return SanitizeString(val)
	case map[string]any:
		return SanitizeMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(item)
		}

		return out
	default:
		return v
	}
}

// SanitizeSlice sanitizes every element of a string slice in place-order.
func SanitizeSlice(values []string) []string {
	if values == nil {
		return nil
	}

	out := make([]string, len(values))
	for i, v := range values {
		out[i] = SanitizeString(v)
	}

	return out
}
