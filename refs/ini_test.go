package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestINIReferences(t *testing.T) {
	content := `user = root

[snowflake]
password = hunter2
account = acme
`

	t.Run("Section key", func(t *testing.T) {
		path := writeTestFile(t, "creds.ini", content)

		val, err := Resolve("ini:" + path + "//snowflake.password")
		require.NoError(t, err)
		assert.Equal(t, "hunter2", val)
	})

	t.Run("Default section", func(t *testing.T) {
		path := writeTestFile(t, "creds.ini", content)

		val, err := Resolve("ini:" + path + "//user")
		require.NoError(t, err)
		assert.Equal(t, "root", val)
	})

	t.Run("Missing section", func(t *testing.T) {
		path := writeTestFile(t, "creds.ini", content)

		_, err := Resolve("ini:" + path + "//postgres.password")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Missing key", func(t *testing.T) {
		path := writeTestFile(t, "creds.ini", content)

		_, err := Resolve("ini:" + path + "//snowflake.missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Key path required", func(t *testing.T) {
		path := writeTestFile(t, "creds.ini", content)

		_, err := Resolve("ini:" + path)
		require.ErrorIs(t, err, ErrBadRef)
	})
}
