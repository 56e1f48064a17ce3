package profiling

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/reporter"
)

// Timer measures elapsed time with named laps.
type Timer struct {
	start time.Time
	last  time.Time
	laps  []Lap
}

// Lap is the time since the previous lap (or the start).
type Lap struct {
	Name     string
	Duration time.Duration
}

// StartTimer starts a Timer.
func StartTimer() *Timer {
	now := time.Now()
	return &Timer{start: now, last: now}
}

// Lap records the time since the previous lap.
func (t *Timer) Lap(name string) time.Duration {
	now := time.Now()
	d := now.Sub(t.last)
	t.last = now
	t.laps = append(t.laps, Lap{Name: name, Duration: d})
	return d
}

// Laps returns the recorded laps.
func (t *Timer) Laps() []Lap { return append([]Lap(nil), t.laps...) }

// Elapsed returns the time since StartTimer.
func (t *Timer) Elapsed() time.Duration { return time.Since(t.start) }

// Result summarises a benchmark run.
type Result struct {
	Name       string        `json:"name" yaml:"name"`
	Iterations int           `json:"iterations" yaml:"iterations"`
	Total      time.Duration `json:"total" yaml:"total"`
	Min        time.Duration `json:"min" yaml:"min"`
	Max        time.Duration `json:"max" yaml:"max"`
	Mean       time.Duration `json:"mean" yaml:"mean"`
}

// Benchmark runs fn iterations times and summarises the call durations. It
// stops at the first error or when ctx is done, returning the partial result
// along with the error.
func Benchmark(ctx context.Context, name string, iterations int, fn func(context.Context) error) (Result, error) {
	res := Result{Name: name}
	if iterations <= 0 {
		return res, errors.InvalidInput("iterations must be positive, got %d", iterations)
	}

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		start := time.Now()
		err := fn(ctx)
		d := time.Since(start)

		res.add(d)
		if err != nil {
			return res, fmt.Errorf("%s iteration %d: %w", name, i+1, err)
		}
	}
	return res, nil
}

func (r *Result) add(d time.Duration) {
	if r.Iterations == 0 || d < r.Min {
		r.Min = d
	}
	if d > r.Max {
		r.Max = d
	}
	r.Iterations++
	r.Total += d
	r.Mean = r.Total / time.Duration(r.Iterations)
}

// Report prints a one-line summary.
func (r Result) Report(w io.Writer) {
	fmt.Fprintf(w, "%s: %d iterations, total %v, mean %v, min %v, max %v\n",
		r.Name, r.Iterations, r.Total, r.Mean, r.Min, r.Max)
}

// Publish writes the result to rep under key in one batch:
// key.iterations, key.total_ms, key.mean_ms, key.min_ms and key.max_ms.
func (r Result) Publish(rep *reporter.Reporter, key string) {
	rep.Apply(reporter.State{
		key + ".iterations": r.Iterations,
		key + ".total_ms":   milliseconds(r.Total),
		key + ".mean_ms":    milliseconds(r.Mean),
		key + ".min_ms":     milliseconds(r.Min),
		key + ".max_ms":     milliseconds(r.Max),
	})
}
