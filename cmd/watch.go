package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"
	"github.com/grovetools/kit/cli"
	"github.com/grovetools/kit/config"
	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/logging"
	"github.com/grovetools/kit/reporter"
	"github.com/grovetools/kit/telemetry"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
)

func NewWatchCmd() *cobra.Command {
	var (
		keys     []string
		patterns []string
		once     bool
		metrics  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the reporter state seeded from kit.yml",
		Long: `Seeds a state reporter from the reporter.initial section of kit.yml and
prints a snapshot every time the file changes the state. Edits that leave
the state unchanged print nothing.

With --keys, snapshots are printed only when one of the named keys changes.
With --match, printed snapshots are limited to keys matching the glob
patterns (dots separate path segments, "!" excludes).

Examples:
  kit watch
  kit watch --keys build.status --json
  kit watch --match 'http.*' --match '!http.last'
  kit watch --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cli.InitConfig(cli.GetOptions(cmd).ConfigFile)
			if err != nil {
				return err
			}
			if path == "" {
				cwd, _ := os.Getwd()
				return errors.ConfigNotFound(cwd)
			}
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			var filter reporter.Predicate
			if len(patterns) > 0 {
				if filter, err = reporter.KeyMatches(patterns...); err != nil {
					return err
				}
			}

			log := cli.GetLogger(cmd)
			opts := []reporter.Option{reporter.WithLogger(log)}
			if cfg.Reporter.Buffer > 0 {
				opts = append(opts, reporter.WithBuffer(cfg.Reporter.Buffer))
			}
			r := reporter.NewFromConfig(cfg.Reporter, opts...)
			defer r.Close()

			out := cmd.OutOrStdout()
			emit := snapshotPrinter(out, cli.GetOptions(cmd).JSONOutput, filter)
			if once {
				return emit(r.Snapshot())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if metrics || cfg.Telemetry.Enabled {
				tcfg := cfg.Telemetry
				tcfg.Enabled = true
				shutdown, err := startTelemetry(ctx, tcfg, r, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer shutdown()
			}

			var sub *reporter.Subscription[reporter.State]
			if len(keys) > 0 {
				if err := emit(r.Snapshot()); err != nil {
					return err
				}
				sub = r.Watch(keys...)
			} else {
				sub = r.Subscribe()
			}
			defer sub.Close()

			var wg conc.WaitGroup
			defer wg.Wait()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			wg.Go(func() {
				if err := reporter.FollowConfig(ctx, r, path); err != nil {
					log.WithError(err).Error("Failed to watch configuration")
					cancel()
				}
			})

			log.WithField("path", path).Info("Watching configuration")
			for {
				snapshot, err := sub.Next(ctx)
				if err != nil {
					return nil
				}
				if err := emit(snapshot); err != nil {
					return err
				}
			}
		},
	}

	cmd.Flags().StringSliceVar(&keys, "keys", nil, "Print only when one of these keys changes")
	cmd.Flags().StringArrayVar(&patterns, "match", nil, "Limit printed keys to glob patterns (repeatable)")
	cmd.Flags().BoolVar(&once, "once", false, "Print the initial state and exit")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Export the state as OpenTelemetry metrics to stderr")
	return cmd
}

func snapshotPrinter(w io.Writer, jsonLines bool, filter reporter.Predicate) func(reporter.State) error {
	pretty := logging.NewPrettyLogger().WithWriter(w)
	return func(s reporter.State) error {
		if filter != nil {
			view := make(reporter.State, len(s))
			for k, v := range s {
				if filter(s, k) {
					view[k] = v
				}
			}
			s = view
		}
		if jsonLines {
			data, err := json.Marshal(s)
			if err != nil {
				return fmt.Errorf("failed to marshal snapshot: %w", err)
			}
			_, err = fmt.Fprintln(w, string(data))
			return err
		}
		pretty.Fields(s)
		pretty.Blank()
		return nil
	}
}

func startTelemetry(ctx context.Context, cfg config.TelemetryConfig, r *reporter.Reporter, w io.Writer) (func(), error) {
	provider, err := telemetry.NewProvider(ctx, cfg, telemetry.WithOutput(w))
	if err != nil {
		return nil, err
	}
	bridge, err := telemetry.NewBridge(provider.Meter(), r)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, err
	}
	return func() {
		_ = bridge.Close()
		_ = provider.Shutdown(context.Background())
	}, nil
}
