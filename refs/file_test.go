package refs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValueFileReferences(t *testing.T) {
	content := `# credentials
export DB_USER=deploy
DB_PASSWORD = "hun ter2"
TOKEN='abc#123'
QUOTED="line1\nline2"
COMMENTED=value # trailing note
EMPTY=
`

	t.Run("Plain key", func(t *testing.T) {
		path := writeTestFile(t, "app.env", content)

		val, err := Resolve("file:" + path + "//DB_USER")
		require.NoError(t, err)
		assert.Equal(t, "deploy", val)
	})

	t.Run("Double quoted with spaces", func(t *testing.T) {
		path := writeTestFile(t, "app.env", content)

		val, err := Resolve("file:" + path + "//DB_PASSWORD")
		require.NoError(t, err)
		assert.Equal(t, "hun ter2", val)
	})

	t.Run("Hash inside quotes is kept", func(t *testing.T) {
		path := writeTestFile(t, "app.env", content)

		val, err := Resolve("file:" + path + "//TOKEN")
		require.NoError(t, err)
		assert.Equal(t, "abc#123", val)
	})

	t.Run("Escapes in double quotes", func(t *testing.T) {
		path := writeTestFile(t, "app.env", content)

		val, err := Resolve("file:" + path + "//QUOTED")
		require.NoError(t, err)
		assert.Equal(t, "line1\nline2", val)
	})

	t.Run("Inline comment stripped", func(t *testing.T) {
		path := writeTestFile(t, "app.env", content)

		val, err := Resolve("file:" + path + "//COMMENTED")
		require.NoError(t, err)
		assert.Equal(t, "value", val)
	})

	t.Run("Empty value", func(t *testing.T) {
		path := writeTestFile(t, "app.env", content)

		val, err := Resolve("file:" + path + "//EMPTY")
		require.NoError(t, err)
		assert.Equal(t, "", val)
	})

	t.Run("Whole file", func(t *testing.T) {
		path := writeTestFile(t, "app.env", "A=1\nB=2\n")

		val, err := Resolve("file:" + path)
		require.NoError(t, err)
		assert.Equal(t, "A=1\nB=2", val)
	})

	t.Run("Missing key", func(t *testing.T) {
		path := writeTestFile(t, "app.env", content)

		_, err := Resolve("file:" + path + "//MISSING")
		require.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "MISSING")
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Resolve("file:" + filepath.Join(t.TempDir(), "nope.env") + "//KEY")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Empty key after slashes", func(t *testing.T) {
		path := writeTestFile(t, "app.env", content)

		_, err := Resolve("file:" + path + "//")
		require.ErrorIs(t, err, ErrBadRef)
	})

	t.Run("BOM is stripped", func(t *testing.T) {
		path := writeTestFile(t, "app.env", "\uFEFFA=1\n")

		val, err := Resolve("file:" + path + "//A")
		require.NoError(t, err)
		assert.Equal(t, "1", val)
	})
}
