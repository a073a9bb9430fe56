package templater

import "strings"

// RedactedPlaceholder replaces secret-classified values in diagnostic output.
const RedactedPlaceholder = "***REDACTED***"

// IsSecret reports whether a variable must be masked in diagnostic output.
// A variable is secret when its name contains "secret" as a case-insensitive
// substring, or when any entry of ancestry (the chain of enclosing map keys
// from the vars root down to the variable) is exactly "secrets".
//
// Substring matching is deliberately broad: "secretary_id" is classified as
// secret. Narrowing this to whole-word matching would silently start leaking
// values that today are masked.
func IsSecret(name string, ancestry []string) bool {
	if strings.Contains(strings.ToLower(name), "secret") {
		return true
	}
	for _, key := range ancestry {
		if key == "secrets" {
			return true
		}
	}
	return false
}

// Redact returns a copy of vars for display and logging where every value
// classified by IsSecret is replaced with RedactedPlaceholder. Structure and
// the key set are preserved; nested maps are walked, everything else
// (scalars, sequences) is classified at its own key and replaced wholesale.
//
// Redact is idempotent and never mutates its input. The unredacted mapping
// is what the rendering engine receives; Redact output is for logs only.
func Redact(vars map[string]any) map[string]any {
	return redactTree(vars, nil)
}

func redactTree(node map[string]any, ancestry []string) map[string]any {
	out := make(map[string]any, len(node))
	for key, val := range node {
		if child, ok := val.(map[string]any); ok {
			out[key] = redactTree(child, append(ancestry, key))
			continue
		}
		if IsSecret(key, ancestry) {
			out[key] = RedactedPlaceholder
			continue
		}
		out[key] = val
	}
	return out
}

// scrubValues replaces any string value that equals one of the tracked
// secret strings, regardless of the key it lives under. It complements the
// name-based Redact for values obtained through secret() references, whose
// key may carry an innocuous name.
func scrubValues(node map[string]any, tracked []string) map[string]any {
	if len(tracked) == 0 {
		return node
	}
	out := make(map[string]any, len(node))
	for key, val := range node {
		switch v := val.(type) {
		case map[string]any:
			out[key] = scrubValues(v, tracked)
		case string:
			out[key] = v
			for _, secret := range tracked {
				if secret != "" && v == secret {
					out[key] = RedactedPlaceholder
					break
				}
			}
		default:
			out[key] = val
		}
	}
	return out
}
