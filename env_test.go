package templater

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupEnv(t *testing.T) {
	t.Run("Set variable", func(t *testing.T) {
		t.Setenv("TEMPLATER_TEST_VAR", "hello")

		val, err := LookupEnv("TEMPLATER_TEST_VAR")
		require.NoError(t, err)
		assert.Equal(t, "hello", val)
	})

	t.Run("Set variable ignores default", func(t *testing.T) {
		t.Setenv("TEMPLATER_TEST_VAR", "hello")

		val, err := LookupEnv("TEMPLATER_TEST_VAR", "fallback")
		require.NoError(t, err)
		assert.Equal(t, "hello", val)
	})

	t.Run("Unset variable with default", func(t *testing.T) {
		val, err := LookupEnv("TEMPLATER_DEFINITELY_UNSET", "fallback")
		require.NoError(t, err)
		assert.Equal(t, "fallback", val)
	})

	t.Run("Unset variable with empty default succeeds", func(t *testing.T) {
		// An explicit "" default is a default, not a missing one.
		val, err := LookupEnv("TEMPLATER_DEFINITELY_UNSET", "")
		require.NoError(t, err)
		assert.Equal(t, "", val)
	})

	t.Run("Unset variable without default fails", func(t *testing.T) {
		_, err := LookupEnv("TEMPLATER_DEFINITELY_UNSET")
		require.Error(t, err)

		var miss *MissingEnvVarError
		require.ErrorAs(t, err, &miss)
		assert.Equal(t, "TEMPLATER_DEFINITELY_UNSET", miss.Name)
		assert.Contains(t, err.Error(), "TEMPLATER_DEFINITELY_UNSET")
	})

	t.Run("Empty value is not unset", func(t *testing.T) {
		t.Setenv("TEMPLATER_TEST_VAR", "")

		val, err := LookupEnv("TEMPLATER_TEST_VAR", "fallback")
		require.NoError(t, err)
		assert.Equal(t, "", val)
	})
}
