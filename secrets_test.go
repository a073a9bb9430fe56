package templater

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSecret(t *testing.T) {
	t.Run("Name contains secret", func(t *testing.T) {
		assert.True(t, IsSecret("api_key_secret", nil))
		assert.True(t, IsSecret("SECRET_TOKEN", nil))
		assert.True(t, IsSecret("MySecretValue", nil))
	})

	t.Run("Substring match is deliberate", func(t *testing.T) {
		// Documented behavior: membership, not whole word.
		assert.True(t, IsSecret("secretary_id", nil))
	})

	t.Run("Non-secret names", func(t *testing.T) {
		assert.False(t, IsSecret("password", nil))
		assert.False(t, IsSecret("token", nil))
		assert.False(t, IsSecret("api_key", nil))
	})

	t.Run("Nested under secrets key", func(t *testing.T) {
		assert.True(t, IsSecret("token", []string{"vars", "secrets"}))
		assert.True(t, IsSecret("token", []string{"secrets", "snowflake"}))
	})

	t.Run("Nested under other keys", func(t *testing.T) {
		assert.False(t, IsSecret("token", []string{"vars", "config"}))
	})

	t.Run("Ancestry match is exact", func(t *testing.T) {
		assert.False(t, IsSecret("token", []string{"Secrets"}))
		assert.False(t, IsSecret("token", []string{"my_secrets_ns"}))
	})
}

func TestRedact(t *testing.T) {
	t.Run("Nested secrets map", func(t *testing.T) {
		vars := map[string]any{
			"database_name": "MY_DATABASE",
			"secrets": map[string]any{
				"api_key": "abc123",
				"nested":  map[string]any{"token": "xyz"},
			},
		}

		out := Redact(vars)
		assert.Equal(t, "MY_DATABASE", out["database_name"])

		secrets := out["secrets"].(map[string]any)
		assert.Equal(t, RedactedPlaceholder, secrets["api_key"])
		nested := secrets["nested"].(map[string]any)
		assert.Equal(t, RedactedPlaceholder, nested["token"])
	})

	t.Run("Secret-named scalar at top level", func(t *testing.T) {
		out := Redact(map[string]any{"client_secret": "s3cr3t", "client_id": "abc"})
		assert.Equal(t, RedactedPlaceholder, out["client_secret"])
		assert.Equal(t, "abc", out["client_id"])
	})

	t.Run("Sequence under secret-named key is replaced wholesale", func(t *testing.T) {
		out := Redact(map[string]any{"secret_tokens": []any{"a", "b"}})
		assert.Equal(t, RedactedPlaceholder, out["secret_tokens"])
	})

	t.Run("Key set is preserved", func(t *testing.T) {
		vars := map[string]any{
			"a":       1,
			"secrets": map[string]any{"k": "v"},
		}

		out := Redact(vars)
		assert.Len(t, out, len(vars))
		for k := range vars {
			assert.Contains(t, out, k)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		vars := map[string]any{
			"plain":   "x",
			"secrets": map[string]any{"api_key": "abc123"},
		}

		once := Redact(vars)
		assert.Equal(t, once, Redact(once))
	})

	t.Run("Input is not mutated", func(t *testing.T) {
		vars := map[string]any{"secrets": map[string]any{"api_key": "abc123"}}

		_ = Redact(vars)
		assert.Equal(t, "abc123", vars["secrets"].(map[string]any)["api_key"])
	})
}

func TestScrubValues(t *testing.T) {
	t.Run("Tracked value masked under any key", func(t *testing.T) {
		vars := map[string]any{
			"harmless_name": "resolved-secret",
			"other":         "plain",
			"nested":        map[string]any{"v": "resolved-secret"},
		}

		out := scrubValues(vars, []string{"resolved-secret"})
		assert.Equal(t, RedactedPlaceholder, out["harmless_name"])
		assert.Equal(t, "plain", out["other"])
		assert.Equal(t, RedactedPlaceholder, out["nested"].(map[string]any)["v"])
	})

	t.Run("No tracked values is identity", func(t *testing.T) {
		vars := map[string]any{"a": "b"}
		assert.Equal(t, vars, scrubValues(vars, nil))
	})

	t.Run("Empty tracked string never matches", func(t *testing.T) {
		vars := map[string]any{"a": ""}
		out := scrubValues(vars, []string{""})
		assert.Equal(t, "", out["a"])
	})
}
