package profiling

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestProfilerSpans(t *testing.T) {
	p := &Profiler{now: fakeClock(time.Millisecond)}
	p.Enable()

	load := p.Start("load")
	parse := p.Start("parse")
	parse.Stop()
	load.Stop()
	p.Start("render").Stop()

	d := p.Durations()
	assert.Equal(t, 3*time.Millisecond, d["load"])
	assert.Equal(t, time.Millisecond, d["load/parse"])
	assert.Equal(t, time.Millisecond, d["render"])

	var buf bytes.Buffer
	p.Summarize(&buf)
	out := buf.String()
	assert.Contains(t, out, "- load (")
	assert.Contains(t, out, "  - parse (")
	assert.Contains(t, out, "- render (")
}

func TestDisabledProfilerIsNoop(t *testing.T) {
	p := &Profiler{}
	p.Start("ignored").Stop()
	assert.Empty(t, p.Durations())

	var buf bytes.Buffer
	p.Summarize(&buf)
	assert.Empty(t, buf.String())
}

func TestProfilerPublish(t *testing.T) {
	p := &Profiler{now: fakeClock(2 * time.Millisecond)}
	p.Enable()
	outer := p.Start("load")
	p.Start("parse").Stop()
	outer.Stop()

	r := reporter.New(nil)
	defer r.Close()
	p.Publish(r, "timing")

	snap := r.Snapshot()
	assert.Equal(t, 6.0, snap["timing.load"])
	assert.Equal(t, 2.0, snap["timing.load.parse"])
	assert.Equal(t, uint64(1), r.Commits())
}

func TestBenchmark(t *testing.T) {
	calls := 0
	res, err := Benchmark(context.Background(), "noop", 5, func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, 5, res.Iterations)
	assert.LessOrEqual(t, res.Min, res.Mean)
	assert.LessOrEqual(t, res.Mean, res.Max)
	assert.Equal(t, res.Total/5, res.Mean)

	var buf bytes.Buffer
	res.Report(&buf)
	assert.Contains(t, buf.String(), "noop: 5 iterations")
}

func TestBenchmarkStopsOnError(t *testing.T) {
	boom := fmt.Errorf("boom")
	res, err := Benchmark(context.Background(), "flaky", 10, func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, res.Iterations)

	_, err = Benchmark(context.Background(), "none", 0, func(context.Context) error { return nil })
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err = Benchmark(ctx, "cancelled", 3, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Iterations)
}

func TestResultPublish(t *testing.T) {
	r := reporter.New(nil)
	defer r.Close()

	Result{Name: "x", Iterations: 2, Total: 4 * time.Millisecond, Min: time.Millisecond, Max: 3 * time.Millisecond, Mean: 2 * time.Millisecond}.
		Publish(r, "bench")

	snap := r.Snapshot()
	assert.Equal(t, 2, snap["bench.iterations"])
	assert.Equal(t, 4.0, snap["bench.total_ms"])
	assert.Equal(t, 2.0, snap["bench.mean_ms"])
	assert.Equal(t, 1.0, snap["bench.min_ms"])
	assert.Equal(t, 3.0, snap["bench.max_ms"])
}

func TestTimerLaps(t *testing.T) {
	tm := StartTimer()
	tm.Lap("first")
	tm.Lap("second")

	laps := tm.Laps()
	require.Len(t, laps, 2)
	assert.Equal(t, "first", laps[0].Name)
	assert.GreaterOrEqual(t, tm.Elapsed(), laps[0].Duration+laps[1].Duration)
}
