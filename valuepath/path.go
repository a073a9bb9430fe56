// Package valuepath navigates nested variable trees (map[string]any, []any,
// scalars) with explicit, typed path segments instead of dynamic attribute
// lookup.
//
// A path is a dotted expression; segments address map keys, slice indexes,
// or pick the first slice element matching a [field=value] filter:
//
//	snowflake.account          → Walk over two map keys
//	servers.0.host             → slice index between map keys
//	servers.[name=etl].host    → first element whose "name" field equals "etl"
//
// Dots inside filter brackets are literal, so [name=example.org] works.
package valuepath

import (
	"fmt"
	"strconv"
	"strings"
)

// Split cuts a dotted path into segments for Walk. Dots act as separators
// only outside [...] filter brackets.
func Split(path string) []string {
	var segs []string
	var buf strings.Builder
	depth := 0
	for _, r := range path {
		switch {
		case r == '[':
			depth++
			buf.WriteRune(r)
		case r == ']':
			if depth > 0 {
				depth--
			}
			buf.WriteRune(r)
		case r == '.' && depth == 0:
			segs = append(segs, buf.String())
			buf.Reset()
		default:
			buf.WriteRune(r)
		}
	}
	return append(segs, buf.String())
}

// Walk descends from root through the given segments and returns the value
// it lands on. Maps are looked up by key, slices by integer index or by
// [field=value] filter; anything else ends the walk with an error.
func Walk(root any, segments []string) (any, error) {
	current := root
	for _, seg := range segments {
		next, err := step(current, seg)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func step(current any, seg string) (any, error) {
	switch node := current.(type) {
	case map[string]any:
		val, ok := node[seg]
		if !ok {
			return nil, fmt.Errorf("key %q not found", seg)
		}
		return val, nil

	case []any:
		if key, want, ok := parseFilter(seg); ok {
			return matchElement(node, key, want)
		}
		idx, err := strconv.Atoi(seg)
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid index or [field=value] filter", seg)
		}
		if idx < 0 || idx >= len(node) {
			return nil, fmt.Errorf("index %d out of bounds (len %d)", idx, len(node))
		}
		return node[idx], nil

	default:
		return nil, fmt.Errorf("cannot descend into scalar at segment %q", seg)
	}
}

// matchElement returns the first map element of list whose field equals the
// wanted value, comparing with scalar coercion so [port=8080] matches a
// numeric port.
func matchElement(list []any, field string, want any) (any, error) {
	for _, elem := range list {
		m, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		got, ok := m[field]
		if !ok {
			continue
		}
		if scalarEqual(got, want) {
			return elem, nil
		}
	}
	return nil, fmt.Errorf("no element where %s=%v", field, want)
}

// parseFilter recognizes a [field=value] segment. The value may be quoted;
// quotes are stripped. Unquoted values are coerced to int/float/bool so
// they compare against typed YAML scalars.
func parseFilter(seg string) (field string, want any, ok bool) {
	if !strings.HasPrefix(seg, "[") || !strings.HasSuffix(seg, "]") {
		return "", nil, false
	}
	inner := seg[1 : len(seg)-1]
	rawField, rawVal, found := strings.Cut(inner, "=")
	if !found {
		return "", nil, false
	}
	field = strings.TrimSpace(rawField)
	if field == "" {
		return "", nil, false
	}
	val := strings.TrimSpace(rawVal)
	if len(val) >= 2 && (val[0] == '"' && val[len(val)-1] == '"' || val[0] == '\'' && val[len(val)-1] == '\'') {
		return field, val[1 : len(val)-1], true
	}
	return field, coerce(val), true
}

// coerce tries int, float, then the explicit literals true/false.
// "1"/"0" stay numeric so IDs match numerically, never as booleans.
func coerce(val string) any {
	if i, err := strconv.Atoi(val); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	switch strings.ToLower(val) {
	case "true":
		return true
	case "false":
		return false
	}
	return val
}

// scalarEqual compares a decoded document value against a coerced filter
// value, bridging the int/int64/float64 variance across YAML, JSON and TOML
// decoders.
func scalarEqual(got, want any) bool {
	switch w := want.(type) {
	case bool:
		g, ok := got.(bool)
		return ok && g == w
	case int:
		switch g := got.(type) {
		case int:
			return g == w
		case int64:
			return g == int64(w)
		case uint64:
			return w >= 0 && g == uint64(w)
		case float64:
			return g == float64(w) && float64(int(g)) == g
		}
		return false
	case float64:
		switch g := got.(type) {
		case float64:
			return g == w
		case int:
			return float64(g) == w
		case int64:
			return float64(g) == w
		}
		return false
	case string:
		g, ok := got.(string)
		return ok && g == w
	}
	return fmt.Sprint(got) == fmt.Sprint(want)
}
