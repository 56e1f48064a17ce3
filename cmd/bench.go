package cmd

import (
	"context"

	"github.com/grovetools/kit/cli"
	"github.com/grovetools/kit/pkg/profiling"
	"github.com/grovetools/kit/reporter"
	"github.com/grovetools/kit/util/pathutil"
	"github.com/spf13/cobra"
)

func NewBenchCmd() *cobra.Command {
	var iterations int

	cmd := &cobra.Command{
		Use:   "bench PATH",
		Short: "Measure how long ensuring a path takes",
		Long: `Runs the ensure operation on PATH repeatedly and prints the call
durations. The first iteration usually creates the path and the rest find
it in place.

Examples:
  kit bench --iterations 100 /tmp/kit-bench/out
  kit bench --json ./data/run.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			opts := pathutil.OptionsFromConfig(cfg.Ensure)
			opts.Logger = cli.GetLogger(cmd)

			span := profiling.Start("bench")
			res, err := profiling.Benchmark(cmd.Context(), "ensure", iterations, func(ctx context.Context) error {
				_, err := pathutil.Ensure(ctx, args[0], opts)
				return err
			})
			span.Stop()
			if err != nil {
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				r := reporter.New(nil, reporter.WithLogger(opts.Logger))
				defer r.Close()
				res.Publish(r, "bench.ensure")
				return writeJSON(cmd.OutOrStdout(), r.Snapshot())
			}
			res.Report(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "Number of ensure calls")
	return cmd
}
