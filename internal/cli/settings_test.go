package cli

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.String("modules-folder", "", "")
	flags.String("root-folder", "", "")
	flags.StringArray("vars", nil, "")
	flags.BoolP("verbose", "v", false, "")
	return flags
}

func TestLoadSettings(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		s, err := loadSettings(newTestFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "", s.Config)
		assert.Equal(t, "", s.RootFolder)
		assert.False(t, s.Verbose)
	})

	t.Run("Settings file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(settingsFile, []byte("modules_folder: ./modules\nverbose: true\n"), 0o666))

		s, err := loadSettings(newTestFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "./modules", s.ModulesFolder)
		assert.True(t, s.Verbose)
	})

	t.Run("Env overrides file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		require.NoError(t, os.WriteFile(settingsFile, []byte("modules_folder: ./from-file\n"), 0o666))
		t.Setenv("SCHEMATPL_MODULES_FOLDER", "./from-env")

		s, err := loadSettings(newTestFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "./from-env", s.ModulesFolder)
	})

	t.Run("Flags override env", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SCHEMATPL_MODULES_FOLDER", "./from-env")

		flags := newTestFlags(t)
		require.NoError(t, flags.Set("modules-folder", "./from-flag"))

		s, err := loadSettings(flags)
		require.NoError(t, err)
		assert.Equal(t, "./from-flag", s.ModulesFolder)
	})

	t.Run("Unchanged flags do not override", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SCHEMATPL_ROOT_FOLDER", "./from-env")

		s, err := loadSettings(newTestFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "./from-env", s.RootFolder)
	})

	t.Run("Vars flag is not a setting", func(t *testing.T) {
		t.Chdir(t.TempDir())

		flags := newTestFlags(t)
		require.NoError(t, flags.Set("vars", "a=b"))

		_, err := loadSettings(flags)
		require.NoError(t, err)
	})

	t.Run("Nil flags", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := loadSettings(nil)
		require.NoError(t, err)
	})
}
