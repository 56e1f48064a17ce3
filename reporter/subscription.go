package reporter

import (
	"context"
	stderrors "errors"
	"sync"
)

// ErrClosed is returned by Subscription.Next once the subscription has been
// closed and every queued value has been drained or discarded.
var ErrClosed = stderrors.New("subscription closed")

// listener is the reporter's view of a subscription.
type listener interface {
	publish(prev, next State)
	Close()
}

// Subscription delivers values derived from a Reporter's committed states.
//
// Each subscription owns an unbounded queue and a pump goroutine, so a slow
// reader never blocks the reporter or other subscriptions. Values arrive in
// commit order.
type Subscription[T any] struct {
	out    chan T
	notify chan struct{}
	done   chan struct{}

	mu    sync.Mutex
	queue []T

	// derive maps a commit to a value; false suppresses delivery.
	derive func(prev, next State) (T, bool)

	closeOnce sync.Once
	detach    func()
}

func newSubscription[T any](buffer int, derive func(prev, next State) (T, bool)) *Subscription[T] {
	if buffer < 0 {
		buffer = 0
	}
	return &Subscription[T]{
		out:    make(chan T, buffer),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
		derive: derive,
	}
}

// C returns the delivery channel. It is closed after Close.
func (s *Subscription[T]) C() <-chan T {
	return s.out
}

// Next blocks until the next value arrives, the subscription closes, or ctx
// is done.
func (s *Subscription[T]) Next(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-s.out:
		if !ok {
			return zero, ErrClosed
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close detaches the subscription. Queued values that were not yet received
// are discarded. Close is idempotent.
func (s *Subscription[T]) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.detach != nil {
			s.detach()
		}
	})
}

func (s *Subscription[T]) publish(prev, next State) {
	v, ok := s.derive(prev, next)
	if !ok {
		return
	}
	s.push(v)
}

func (s *Subscription[T]) push(v T) {
	select {
	case <-s.done:
		return
	default:
	}

	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Subscription[T]) pump() {
	defer close(s.out)
	var zero T
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.notify:
				continue
			case <-s.done:
				return
			}
		}
		v := s.queue[0]
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}
