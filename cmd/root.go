package cmd

import (
	"github.com/grovetools/kit/cli"
	"github.com/grovetools/kit/pkg/profiling"
	"github.com/grovetools/kit/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the kit command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"kit",
		"Reactive state, path and config utilities",
	)

	profiler := profiling.NewCobraProfiler()
	profiler.AddFlags(root)
	root.PersistentPreRunE = profiler.PreRun
	root.PersistentPostRun = profiler.PostRun

	info := version.GetInfo()
	cli.SetVersionTemplate(root, info)

	root.AddCommand(
		cli.NewVersionCommand("kit", info),
		NewConfigCmd(),
		NewSchemaCmd(),
		NewPathsCmd(),
		NewEnsureCmd(),
		NewBenchCmd(),
		NewStatusCmd(),
		NewWatchCmd(),
	)

	cli.ApplyStyledHelpRecursive(root)
	return root
}
