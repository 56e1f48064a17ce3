package reporter

import (
	"context"

	"github.com/grovetools/kit/config"
)

// FollowConfig watches the configuration file at path until ctx is done and
// applies the reporter.initial section of every successful reload to r as
// one batch. Keys that disappear from the file are kept; use Prune to drop
// them.
func FollowConfig(ctx context.Context, r *Reporter, path string, opts ...config.WatcherOption) error {
	apply := func(cfg *config.Config) {
		r.Apply(State(cfg.Reporter.Initial))
	}
	opts = append([]config.WatcherOption{config.WithWatchLogger(r.log)}, opts...)
	w, err := config.NewWatcher(path, apply, opts...)
	if err != nil {
		return err
	}
	w.Start(ctx)
	return nil
}
