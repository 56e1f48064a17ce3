package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/grovetools/kit/logging"
	"github.com/spf13/cobra"
)

// CobraProfiler wires CPU, heap and span profiling into a cobra command tree.
type CobraProfiler struct {
	cpuProfileFile *os.File
	cpuProfilePath string
	memProfilePath string
	timing         bool
}

func NewCobraProfiler() *CobraProfiler {
	return &CobraProfiler{}
}

// AddFlags adds --cpu-profile, --mem-profile and --timing to cmd.
func (p *CobraProfiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuProfilePath, "cpu-profile", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memProfilePath, "mem-profile", "", "Write memory profile to file")
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print hierarchical timing summary on exit")
}

// PreRun is a PersistentPreRunE hook.
func (p *CobraProfiler) PreRun(cmd *cobra.Command, args []string) error {
	if p.timing {
		Enable()
	}

	if p.cpuProfilePath != "" {
		f, err := os.Create(p.cpuProfilePath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		p.cpuProfileFile = f
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
	}
	return nil
}

// PostRun is a PersistentPostRun hook.
func (p *CobraProfiler) PostRun(cmd *cobra.Command, args []string) {
	log := logging.NewLogger("kit.profiling")
	pretty := logging.NewPrettyLogger().WithWriter(cmd.ErrOrStderr())

	if p.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		p.cpuProfileFile.Close()
		pretty.Path("CPU profile", p.cpuProfilePath)
	}

	if p.memProfilePath != "" {
		f, err := os.Create(p.memProfilePath)
		if err != nil {
			log.WithError(err).Error("Could not create memory profile")
			return
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.WithError(err).Error("Could not write memory profile")
			return
		}
		pretty.Path("Memory profile", p.memProfilePath)
	}

	if p.timing {
		Summarize(cmd.ErrOrStderr())
	}
}
