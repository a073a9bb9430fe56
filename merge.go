package templater

import (
	"fmt"
	"strconv"
	"strings"
)

// Merge combines config vars with invocation-time overrides into the single
// mapping handed to the rendering engine. Every top-level key of vars is
// present; every override is applied on top, replacing a same-named entry
// wholesale (an override never deep-merges into a nested map).
//
// Merge is pure: neither input is mutated, and the same inputs always
// produce the same output.
func Merge(vars, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(vars)+len(overrides))
	for k, v := range vars {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// ParseOverrides turns repeated --vars key=value arguments into an override
// mapping. Values are coerced the way YAML would read them: integers,
// floats and the literals true/false become typed scalars, everything else
// stays a string. Quoting a value keeps it a string: name='1'.
func ParseOverrides(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid override %q: expected key=value", pair)
		}
		out[key] = coerceScalar(strings.TrimSpace(raw))
	}
	return out, nil
}

// coerceScalar tries int, float, then the explicit literals true/false;
// anything else, including quoted values, is returned as a string.
// "1"/"0" stay numeric, never boolean, so numeric IDs compare correctly.
func coerceScalar(raw string) any {
	if unq, ok := stripQuotes(raw); ok {
		return unq
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

// stripQuotes removes a matching pair of single or double quotes around s.
func stripQuotes(s string) (string, bool) {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1], true
		}
	}
	return s, false
}
