package cmd

import (
	"github.com/grovetools/kit/cli"
	"github.com/grovetools/kit/logging"
	"github.com/grovetools/kit/pkg/paths"
	"github.com/spf13/cobra"
)

func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the per-user directories used by kit",
		Long: `Print the directories kit reads and writes:
- config_dir: global kit.yml
- state_dir: runtime state
- log_dir: file logs when logging.file.path is unset
- cache_dir: regenerable data

KIT_HOME relocates all of them; otherwise the XDG base directory variables
apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := paths.All()
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), dirs)
			}
			pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			for _, name := range []string{"config_dir", "state_dir", "log_dir", "cache_dir"} {
				pretty.Path(name, dirs[name])
			}
			return nil
		},
	}
}
