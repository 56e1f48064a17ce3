package reporter

import (
	"context"
	"fmt"
	"time"
)

// Instrument wraps fn so that every call records its outcome in r under key:
//
//	key.duration  call duration in milliseconds (float64)
//	key.method    method
//	key.success   whether fn returned a nil error
//	key.error     the error text, or nil on success
//
// All four keys are written in one batch. The error from fn is returned
// unchanged. A panic is recorded as a failure and then re-raised.
func Instrument(r *Reporter, key, method string, fn func(context.Context) error) func(context.Context) error {
	wrapped := InstrumentValue(r, key, method, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return func(ctx context.Context) error {
		_, err := wrapped(ctx)
		return err
	}
}

// InstrumentValue is Instrument for functions that also return a value.
func InstrumentValue[T any](r *Reporter, key, method string, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (result T, err error) {
		start := time.Now()
		completed := false
		defer func() {
			if !completed {
				rec := recover()
				r.Apply(outcome(key, method, time.Since(start), fmt.Errorf("panic: %v", rec)))
				panic(rec)
			}
			r.Apply(outcome(key, method, time.Since(start), err))
		}()

		result, err = fn(ctx)
		completed = true
		return result, err
	}
}

func outcome(key, method string, elapsed time.Duration, err error) State {
	var errText any
	if err != nil {
		errText = err.Error()
	}
	return State{
		key + ".duration": float64(elapsed) / float64(time.Millisecond),
		key + ".method":   method,
		key + ".success":  err == nil,
		key + ".error":    errText,
	}
}
