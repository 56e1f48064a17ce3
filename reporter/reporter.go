// Package reporter implements a reactive key-value state store.
//
// A Reporter owns a single State map. Callers change it through Apply (or the
// Set, Add and Sub wrappers), which folds a batch of deltas and operations
// into one net next-state and publishes a snapshot only when that net state
// differs from the committed one. Subscribers receive snapshots through
// independent queues, in commit order.
//
// Operations and predicates run while the reporter's lock is held and must
// not call back into the same Reporter.
package reporter

import (
	"sync"

	"github.com/grovetools/kit/config"
	"github.com/grovetools/kit/errors"
	"github.com/grovetools/kit/logging"
	"github.com/grovetools/kit/util/objutil"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// Reporter is the single authoritative owner of a State.
type Reporter struct {
	mu        sync.Mutex
	state     State
	listeners []listener
	closed    bool
	commits   uint64

	buffer int
	pumps  conc.WaitGroup
	log    *logrus.Entry
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithLogger sets the logger used for commit and contract-violation logs.
func WithLogger(log *logrus.Entry) Option {
	return func(r *Reporter) {
		if log != nil {
			r.log = log
		}
	}
}

// WithBuffer sets the channel buffer of each subscription. Subscriptions
// queue without bound regardless; the buffer only lets a reader receive
// several values without waiting on the pump goroutine.
func WithBuffer(n int) Option {
	return func(r *Reporter) {
		r.buffer = n
	}
}

// New creates a Reporter holding a shallow copy of initial.
func New(initial State, opts ...Option) *Reporter {
	r := &Reporter{
		state: initial.Clone(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logging.NewLogger("kit.reporter")
	}
	return r
}

// NewFromStruct creates a Reporter whose initial state holds the fields of v,
// keyed by their `kit` tag or field name.
func NewFromStruct(v any, opts ...Option) (*Reporter, error) {
	m, err := objutil.ToMap(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to convert initial state")
	}
	return New(State(m), opts...), nil
}

// NewFromConfig creates a Reporter seeded from the reporter configuration
// section.
func NewFromConfig(cfg config.ReporterConfig, opts ...Option) *Reporter {
	opts = append([]Option{WithBuffer(cfg.Buffer)}, opts...)
	return New(State(cfg.Initial), opts...)
}

// Apply folds items into one batch. Items are processed in order against a
// working copy of the state, so an Operation sees the effect of earlier items
// in the same call; later writes to a key win. The batch commits and emits
// exactly one snapshot if and only if the net result differs from the
// committed state.
func (r *Reporter) Apply(items ...Item) *Reporter {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.applyLocked(items)
	return r
}

// Set is shorthand for Apply(State{key: value}).
func (r *Reporter) Set(key string, value any) *Reporter {
	return r.Apply(State{key: value})
}

// Add adds amount to the number at key. Unlike the Add operation, the key
// must already exist and hold a number; otherwise a TYPE_CONTRACT error is
// returned and the state is left untouched.
func (r *Reporter) Add(key string, amount float64) (*Reporter, error) {
	return r.arithmetic(key, Add(key, amount))
}

// Sub subtracts amount from the number at key with the same contract as Add.
func (r *Reporter) Sub(key string, amount float64) (*Reporter, error) {
	return r.arithmetic(key, Sub(key, amount))
}

func (r *Reporter) arithmetic(key string, op Operation) (*Reporter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := requireNumber(r.state, key); err != nil {
		r.log.WithField("key", key).WithError(err).Debug("Rejected arithmetic update")
		return r, err
	}
	r.applyLocked([]Item{op})
	return r, nil
}

// Snapshot returns an independent shallow copy of the current state.
func (r *Reporter) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// Get returns the value at key.
func (r *Reporter) Get(key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.state[key]
	return v, ok
}

// Commits returns how many state changes have been committed.
func (r *Reporter) Commits() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commits
}

// Subscribe returns a stream of snapshots. The current snapshot is delivered
// first, followed by one snapshot per committed change.
func (r *Reporter) Subscribe() *Subscription[State] {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := newSubscription(r.buffer, func(_, next State) (State, bool) {
		return next.Clone(), true
	})
	if attach(r, sub) {
		sub.push(r.state.Clone())
	}
	return sub
}

// Watch returns a stream of full snapshots that fires only when at least one
// of keys changes value or presence. The baseline is the state at the time
// of the call, and the current snapshot is not replayed. With no keys, every
// committed change is forwarded.
func (r *Reporter) Watch(keys ...string) *Subscription[State] {
	watched := append([]string(nil), keys...)

	r.mu.Lock()
	defer r.mu.Unlock()

	sub := newSubscription(r.buffer, func(prev, next State) (State, bool) {
		if len(watched) > 0 && !keysDiffer(prev, next, watched) {
			return nil, false
		}
		return next.Clone(), true
	})
	attach(r, sub)
	return sub
}

// Changes returns a stream of per-key change records, one slice per committed
// change.
func (r *Reporter) Changes() *Subscription[[]Change] {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := newSubscription(r.buffer, func(prev, next State) ([]Change, bool) {
		changes := Diff(prev, next)
		return changes, len(changes) > 0
	})
	attach(r, sub)
	return sub
}

// Extract returns the keys of the current state that pass preds. Under
// ModeAll every predicate must pass; under ModeAny at least one must. It
// never modifies the state or emits.
func (r *Reporter) Extract(preds []Predicate, mode Mode) State {
	view := r.Snapshot()
	out := make(State)
	for k, v := range view {
		var keep bool
		if mode == ModeAny {
			keep = passesAny(preds, view, k)
		} else {
			keep = passesAll(preds, view, k)
		}
		if keep {
			out[k] = v
		}
	}
	return out
}

// Prune removes every key that fails at least one of preds. It emits only if
// a key was removed.
func (r *Reporter) Prune(preds ...Predicate) *Reporter {
	return r.filter(func(view State, key string) bool {
		return passesAll(preds, view, key)
	})
}

// TransformOptions selects the keys retained by Transform.
type TransformOptions struct {
	// Keep retains keys passing at least one predicate. Empty keeps all.
	Keep []Predicate
	// Drop removes keys passing at least one predicate.
	Drop []Predicate
}

// Transform retains a key when (Keep is empty or any Keep predicate passes)
// and no Drop predicate passes. It emits only if a key was removed.
func (r *Reporter) Transform(opts TransformOptions) *Reporter {
	return r.filter(func(view State, key string) bool {
		keep := len(opts.Keep) == 0 || passesAny(opts.Keep, view, key)
		return keep && !passesAny(opts.Drop, view, key)
	})
}

func (r *Reporter) filter(retain func(view State, key string) bool) *Reporter {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := r.state.Clone()
	next := make(State, len(r.state))
	for k, v := range r.state {
		if retain(view, k) {
			next[k] = v
		}
	}
	if len(next) != len(r.state) {
		r.commitLocked(next)
	}
	return r
}

// Close closes every subscription and waits for their delivery goroutines.
// The reporter keeps accepting changes; new subscriptions start closed.
func (r *Reporter) Close() {
	r.mu.Lock()
	r.closed = true
	listeners := r.listeners
	r.listeners = nil
	r.mu.Unlock()

	for _, l := range listeners {
		l.Close()
	}
	r.pumps.Wait()
}

func (r *Reporter) applyLocked(items []Item) bool {
	working := r.state.Clone()
	for _, item := range items {
		if item == nil {
			continue
		}
		for k, v := range item.Delta(working.Clone()) {
			working[k] = v
		}
	}
	return r.commitLocked(working)
}

// commitLocked replaces the state with next when they differ. The committed
// map is never mutated afterwards, so listeners may read prev and next
// without copying.
func (r *Reporter) commitLocked(next State) bool {
	if next.Equal(r.state) {
		return false
	}
	prev := r.state
	r.state = next
	r.commits++

	if r.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		r.log.WithFields(logrus.Fields{
			"commit":  r.commits,
			"changed": len(Diff(prev, next)),
			"keys":    len(next),
		}).Debug("State committed")
	}

	for _, l := range r.listeners {
		l.publish(prev, next)
	}
	return true
}

func (r *Reporter) remove(target listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.listeners {
		if l == target {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// attach registers sub and starts its pump. It must be called with r.mu held
// and reports false when the reporter is closed.
func attach[T any](r *Reporter, sub *Subscription[T]) bool {
	if r.closed {
		sub.closeOnce.Do(func() { close(sub.done) })
		close(sub.out)
		return false
	}
	sub.detach = func() { r.remove(sub) }
	r.listeners = append(r.listeners, sub)
	r.pumps.Go(sub.pump)
	return true
}

func typeContract(key string, value any, present bool) error {
	return errors.TypeContract(key, value, present)
}

func invalidInput(format string, args ...any) error {
	return errors.InvalidInput(format, args...)
}
