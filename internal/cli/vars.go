package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newVarsCmd(state *runState) *cobra.Command {
	return &cobra.Command{
		Use:   "vars",
		Short: "Print the resolved variable mapping (always redacted)",
		Long: `Prints the merged variable mapping as YAML, exactly as templates would
see it except that secret-classified values are masked. There is no flag to
print raw values: this surface is diagnostic output, and raw secrets never
reach it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tpl, err := newTemplater(cmd, state)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(tpl.RedactedVars())
			if err != nil {
				return fmt.Errorf("encode vars: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
