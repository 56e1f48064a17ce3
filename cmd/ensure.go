package cmd

import (
	"time"

	"github.com/grovetools/kit/cli"
	"github.com/grovetools/kit/logging"
	"github.com/grovetools/kit/util/pathutil"
	"github.com/spf13/cobra"
)

func NewEnsureCmd() *cobra.Command {
	var (
		touch      bool
		maxRetries int
		retryDelay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ensure PATH...",
		Short: "Create directories or files if they do not exist",
		Long: `Ensures each PATH exists. Paths with an extension are treated as files
whose parent directory is created; --touch also creates the file itself.
Transient filesystem errors are retried with exponential backoff using the
ensure section of kit.yml unless overridden by flags.

Examples:
  kit ensure ~/.cache/kit
  kit ensure --touch ./logs/run.log
  kit ensure --max-retries 5 --retry-delay 250ms /mnt/share/out`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			opts := pathutil.OptionsFromConfig(cfg.Ensure)
			opts.TouchFile = touch
			opts.Logger = cli.GetLogger(cmd)
			if cmd.Flags().Changed("max-retries") {
				opts.MaxRetries = &maxRetries
			}
			if cmd.Flags().Changed("retry-delay") {
				opts.RetryDelay = retryDelay
			}

			results := make([]*pathutil.EnsureResult, 0, len(args))
			for _, path := range args {
				res, err := pathutil.Ensure(cmd.Context(), path, opts)
				if err != nil {
					return err
				}
				results = append(results, res)
			}

			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			for _, res := range results {
				if res.Created {
					pretty.Success("created " + string(res.Type))
				} else {
					pretty.InfoPretty(string(res.Type) + " exists")
				}
				pretty.Path("path", res.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&touch, "touch", false, "Create the file itself, not only its parent directory")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 0, "Retries on transient errors (overrides ensure.max_retries)")
	cmd.Flags().DurationVar(&retryDelay, "retry-delay", 0, "Initial backoff delay (overrides ensure.retry_delay)")
	return cmd
}
