// Package cli provides the schematpl command line interface: render
// schemachange migration scripts outside the migration tool, with the same
// variable resolution and secret redaction it would apply.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "0.1.0"

// runState carries the loaded settings and logger from the root
// PersistentPreRunE into subcommands.
type runState struct {
	settings *Settings
	logger   *zap.Logger
}

// NewRootCmd creates the root command and its subcommands.
func NewRootCmd() *cobra.Command {
	state := &runState{}

	rootCmd := &cobra.Command{
		Use:   "schematpl",
		Short: "Render schemachange-templated SQL migration scripts",
		Long: `schematpl renders Jinja-templated SQL migration scripts the way
schemachange would: variables come from schemachange-config.yml merged with
--vars overrides (overrides win), env_var() reads the environment, and the
modules folder is searched for reusable fragments.

Secret-classified variables (name contains "secret", or nested under a
"secrets" key) are masked in all diagnostic output.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			settings, err := loadSettings(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger, err := newLogger(settings.Verbose)
			if err != nil {
				return err
			}
			state.settings = settings
			state.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if state.logger != nil {
				_ = state.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "schemachange config file (default: probe for schemachange-config.yml)")
	flags.String("modules-folder", "", "override the config's modules folder")
	flags.String("root-folder", "", "override the config's root folder")
	flags.StringArray("vars", nil, "variable override, key=value (repeatable; wins over config vars)")
	flags.BoolP("verbose", "v", false, "debug output, including the redacted variable dump")

	rootCmd.AddCommand(newRenderCmd(state))
	rootCmd.AddCommand(newVarsCmd(state))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
