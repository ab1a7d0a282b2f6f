package apierror

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FallbackMessage is returned when an error body carries nothing readable.
const FallbackMessage = "An unexpected error occurred. Please try again."

// maxDecodeDepth bounds how many times a JSON string is re-decoded.
const maxDecodeDepth = 3

// keys whose messages are shown without a field prefix
var unprefixedKeys = map[string]bool{
	"detail":           true,
	"non_field_errors": true,
	"message":          true,
	"error":            true,
}

// FormatMessage turns a raw backend error body into one human-readable message.
func FormatMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return FallbackMessage
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		if looksLikeMarkup(trimmed) {
			return FallbackMessage
		}
		return trimmed
	}
	return FormatValue(v)
}

// FormatValue normalizes an already decoded error payload.
func FormatValue(v any) string {
	msg := strings.TrimSpace(format(normalize(v), 0))
	if msg == "" {
		return FallbackMessage
	}
	return msg
}

func format(v any, depth int) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return formatString(val, depth)
	case map[string]any:
		return formatObject(val, depth)
	case []any:
		return strings.Join(flattenList(val, depth), "\n")
	case bool:
		return ""
	case float64:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

func formatString(s string, depth int) string {
	s = strings.TrimSpace(s)
	if depth >= maxDecodeDepth || s == "" {
		return s
	}
	if !(strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") || strings.HasPrefix(s, `"`)) {
		return s
	}
	var inner any
	if err := json.Unmarshal([]byte(s), &inner); err != nil {
		return s
	}
	if out := format(inner, depth+1); out != "" {
		return out
	}
	return s
}

func formatObject(obj map[string]any, depth int) string {
	if detail, ok := obj["detail"].(string); ok && strings.TrimSpace(detail) != "" {
		return formatString(detail, depth)
	}

	var lines []string
	for _, key := range orderedKeys(obj) {
		parts := flatten(obj[key], depth)
		if len(parts) == 0 {
			continue
		}
		msg := strings.Join(parts, " ")
		if unprefixedKeys[key] {
			lines = append(lines, msg)
			continue
		}
		lines = append(lines, key+": "+msg)
	}
	return strings.Join(lines, "\n")
}

func flatten(v any, depth int) []string {
	switch val := v.(type) {
	case []any:
		return flattenList(val, depth)
	default:
		if s := format(val, depth); s != "" {
			return []string{s}
		}
		return nil
	}
}

func flattenList(list []any, depth int) []string {
	var out []string
	for _, item := range list {
		if s := strings.TrimSpace(format(item, depth)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func orderedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := keyPriority(keys[i]), keyPriority(keys[j])
		if pi != pj {
			return pi < pj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func keyPriority(k string) int {
	switch k {
	case "detail":
		return 0
	case "non_field_errors":
		return 1
	case "message", "error":
		return 2
	default:
		return 3
	}
}

// normalize maps typed Go values (map[string][]string, structs) onto the generic
// shapes produced by encoding/json.
func normalize(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64, map[string]any, []any:
		return v
	case []byte:
		var out any
		if err := json.Unmarshal(t, &out); err != nil {
			return string(t)
		}
		return out
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw)
	}
	return out
}

func looksLikeMarkup(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "<!doctype") || strings.HasPrefix(l, "<html")
}
