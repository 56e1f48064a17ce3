// Package profiling measures wall-clock time: hierarchical spans for a
// command run and repeatable benchmarks whose results can be published into
// a reporter.
package profiling

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grovetools/kit/reporter"
)

// Stopper ends a timed span.
type Stopper interface {
	Stop()
}

// span is a single timed operation in the hierarchy.
type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
	profiler *Profiler
}

func (s *span) Stop() {
	s.profiler.endSpan(s)
}

// Profiler records nested timing spans. The zero value is disabled.
type Profiler struct {
	mu        sync.Mutex
	enabled   bool
	now       func() time.Time
	root      *span
	spanStack []*span
}

// NewProfiler returns an enabled profiler.
func NewProfiler() *Profiler {
	p := &Profiler{}
	p.Enable()
	return p
}

var defaultProfiler = &Profiler{}

// Enable turns on the global profiler.
func Enable() { defaultProfiler.Enable() }

// Start begins a span on the global profiler. It is a no-op until Enable.
func Start(name string) Stopper { return defaultProfiler.Start(name) }

// Summarize prints the global profiler's span tree to w.
func Summarize(w io.Writer) { defaultProfiler.Summarize(w) }

// Enable starts the profiling session. Calling it again has no effect.
func (p *Profiler) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.enabled {
		return
	}
	if p.now == nil {
		p.now = time.Now
	}
	p.enabled = true
	p.root = &span{name: "root", start: p.now(), profiler: p}
	p.spanStack = []*span{p.root}
}

// Start begins a span nested under the innermost open span. End it with
// Stop, typically via defer.
func (p *Profiler) Start(name string) Stopper {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return noopStopper{}
	}

	parent := p.spanStack[len(p.spanStack)-1]
	s := &span{name: name, start: p.now(), profiler: p}
	parent.children = append(parent.children, s)
	p.spanStack = append(p.spanStack, s)
	return s
}

func (p *Profiler) endSpan(s *span) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s.duration = p.now().Sub(s.start)
	if len(p.spanStack) <= 1 {
		return
	}
	for i := len(p.spanStack) - 1; i > 0; i-- {
		if p.spanStack[i] == s {
			p.spanStack = p.spanStack[:i]
			return
		}
	}
}

// Summarize prints a hierarchical summary of all spans to w.
func (p *Profiler) Summarize(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.root == nil {
		return
	}
	total := p.total()

	fmt.Fprintln(w, "\n--- Timing Profile ---")
	printSpan(w, p.root, 0, total)
	fmt.Fprintln(w, "--------------------")
}

// Durations returns the duration of every finished span keyed by its
// slash-separated path, e.g. "load/parse".
func (p *Profiler) Durations() map[string]time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]time.Duration)
	if p.root == nil {
		return out
	}
	var walk func(s *span, prefix string)
	walk = func(s *span, prefix string) {
		for _, child := range s.children {
			path := child.name
			if prefix != "" {
				path = prefix + "/" + child.name
			}
			if child.duration > 0 {
				out[path] = child.duration
			}
			walk(child, path)
		}
	}
	walk(p.root, "")
	return out
}

// Publish writes each span duration, in milliseconds, to r under
// prefix.<path> in one batch.
func (p *Profiler) Publish(r *reporter.Reporter, prefix string) {
	delta := make(reporter.State)
	for path, d := range p.Durations() {
		delta[prefix+"."+strings.ReplaceAll(path, "/", ".")] = milliseconds(d)
	}
	r.Apply(delta)
}

func (p *Profiler) total() time.Duration {
	if p.root.duration == 0 {
		return p.now().Sub(p.root.start)
	}
	return p.root.duration
}

func printSpan(w io.Writer, s *span, depth int, totalDuration time.Duration) {
	indent := strings.Repeat("  ", depth)
	percentage := 0.0
	if totalDuration > 0 {
		percentage = (float64(s.duration) / float64(totalDuration)) * 100
	}

	if s.name != "root" {
		fmt.Fprintf(w, "%s- %s (%v, %.1f%%)\n", indent, s.name, s.duration.Round(time.Microsecond*100), percentage)
	}

	sort.SliceStable(s.children, func(i, j int) bool {
		return s.children[i].start.Before(s.children[j].start)
	})
	for _, child := range s.children {
		printSpan(w, child, depth+1, totalDuration)
	}
}

type noopStopper struct{}

func (noopStopper) Stop() {}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
