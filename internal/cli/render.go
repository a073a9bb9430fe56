package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	templater "github.com/schematools/schemachange-templater"
)

func newRenderCmd(state *runState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Render migration scripts to stdout or --output-dir",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := newTemplater(cmd, state)
			if err != nil {
				return err
			}
			outputDir := state.settings.OutputDir
			if cmd.Flags().Changed("output-dir") {
				outputDir, _ = cmd.Flags().GetString("output-dir")
			}
			for _, script := range args {
				rendered, err := tpl.RenderFile(script)
				if err != nil {
					return err
				}
				if err := emit(cmd, outputDir, script, rendered); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().String("output-dir", "", "write rendered scripts here instead of stdout")
	return cmd
}

// newTemplater assembles the single-shot render pipeline: locate and load
// the schemachange config, apply tool-setting overrides for the search
// folders, parse --vars, and construct the Templater.
func newTemplater(cmd *cobra.Command, state *runState) (*templater.Templater, error) {
	cfg, err := loadConfig(state)
	if err != nil {
		return nil, err
	}

	pairs, err := cmd.Root().PersistentFlags().GetStringArray("vars")
	if err != nil {
		return nil, err
	}
	overrides, err := templater.ParseOverrides(pairs)
	if err != nil {
		return nil, err
	}

	return templater.New(cfg,
		templater.WithOverrides(overrides),
		templater.WithLogger(state.logger),
	)
}

// loadConfig finds and loads the schemachange config. An explicit --config
// that does not exist is an error; probing that finds nothing yields an
// empty config, matching the migration tool's behavior when run without
// one.
func loadConfig(state *runState) (*templater.Config, error) {
	s := state.settings

	path := s.Config
	if path == "" {
		probeDir := s.RootFolder
		if probeDir == "" {
			probeDir = "."
		}
		path = templater.FindConfig(probeDir)
	}

	var cfg *templater.Config
	if path == "" {
		state.logger.Debug("no schemachange config file found, using empty config")
		cfg = &templater.Config{RootFolder: "."}
	} else {
		var err error
		cfg, err = templater.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		state.logger.Debug("loaded schemachange config", zap.String("path", path))
	}

	if s.ModulesFolder != "" {
		cfg.ModulesFolder = s.ModulesFolder
	}
	if s.RootFolder != "" {
		cfg.RootFolder = s.RootFolder
	}
	return cfg, nil
}

// emit writes one rendered script to the output dir, or to stdout.
func emit(cmd *cobra.Command, outputDir, script, rendered string) error {
	if outputDir == "" {
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	target := filepath.Join(outputDir, filepath.Base(script))
	if err := os.WriteFile(target, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
