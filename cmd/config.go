package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/kit/cli"
	"github.com/grovetools/kit/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display the layered configuration for the current directory",
		Long: `Shows how the final configuration is built by merging layers:
1. Global config ($XDG_CONFIG_HOME/kit/kit.yml)
2. Project config (nearest kit.yml)
3. Override files (kit.override.yml)
This is useful for debugging configuration issues.

Examples:
  # Show every layer
  kit config

  # Show only the merged result as JSON
  kit config --final --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}

			layered, err := config.LoadLayered(cwd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			finalOnly, _ := cmd.Flags().GetBool("final")
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(out, layered.Final)
			}
			if finalOnly {
				return printLayer(out, "FINAL MERGED CONFIG", "", layered.Final)
			}

			layers := []layer{
				{"GLOBAL CONFIG", layered.FilePaths[config.SourceGlobal], layered.Global},
				{"PROJECT CONFIG", layered.FilePaths[config.SourceProject], layered.Project},
			}
			for _, o := range layered.Overrides {
				layers = append(layers, layer{"OVERRIDE CONFIG", o.Path, o.Config})
			}
			for _, l := range layers {
				if err := printLayer(out, l.title, l.path, l.cfg); err != nil {
					return err
				}
			}
			return printLayer(out, "FINAL MERGED CONFIG", "", layered.Final)
		},
	}
	cmd.Flags().Bool("final", false, "Print only the merged configuration")
	return cmd
}

type layer struct {
	title, path string
	cfg         *config.Config
}

func printLayer(w io.Writer, title, path string, cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	fmt.Fprintf(w, "--- # %s\n", title)
	if path != "" {
		fmt.Fprintf(w, "# Source: %s\n", path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
