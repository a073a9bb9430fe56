package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix is the prefix for tool settings from the environment,
// e.g. SCHEMATPL_MODULES_FOLDER.
const envPrefix = "SCHEMATPL_"

// settingsFile is the optional tool settings file, distinct from the
// schemachange config: it configures the templater CLI itself, never
// template variables.
const settingsFile = "schematpl.yaml"

// Settings hold CLI tool configuration. Template variables never live
// here; they come from the schemachange config and --vars.
type Settings struct {
	// Config is an explicit schemachange config path. Empty means probe
	// the root folder for the candidate names.
	Config string `koanf:"config"`

	// ModulesFolder and RootFolder override the same-named schemachange
	// config keys when set.
	ModulesFolder string `koanf:"modules_folder"`
	RootFolder    string `koanf:"root_folder"`

	// OutputDir writes rendered scripts to files instead of stdout.
	OutputDir string `koanf:"output_dir"`

	Verbose bool `koanf:"verbose"`
}

// loadSettings layers tool settings the usual way: defaults, then
// schematpl.yaml when present, then SCHEMATPL_* environment variables,
// then explicitly set flags on top.
func loadSettings(flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"root_folder": "",
		"verbose":     false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if _, err := os.Stat(settingsFile); err == nil {
		if err := k.Load(file.Provider(settingsFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read settings file %s: %w", settingsFile, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env settings: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			// --vars is parsed separately, it is not a tool setting.
			if f.Name == "vars" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &s, nil
}
