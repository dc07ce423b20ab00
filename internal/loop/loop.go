// Package loop serializes every wire event and timer callback onto one
// goroutine. Link and run state are only ever touched from inside a loop
// callback, so neither needs locks.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("event loop stopped")

// Scheduler is what loop-owned components depend on.
type Scheduler interface {
	Now() time.Time
	// Post queues fn to run on the loop. Safe from any goroutine.
	Post(fn func())
	// AfterFunc runs fn on the loop after d.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Executor runs fn on the loop and waits for it to finish.
type Executor interface {
	Do(ctx context.Context, fn func()) error
}

// Timer is a one-shot callback created by AfterFunc.
type Timer interface {
	// Stop prevents the callback from running. It reports false when the
	// callback already ran or was already stopped. Call it from the loop.
	Stop() bool
}

// Loop is a single-goroutine mailbox with an unbounded queue.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped chan struct{}
	closed  bool
	now     func() time.Time
}

// New returns a loop using the wall clock.
func New() *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		now:     time.Now,
	}
}

func (l *Loop) Now() time.Time { return l.now() }

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do posts fn and blocks until it ran, ctx ended, or the loop stopped.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		// fn may have completed right before shutdown
		select {
		case <-done:
			return nil
		default:
			return ErrStopped
		}
	}
}

// Run processes the mailbox until ctx is canceled. Pending callbacks are
// dropped on exit.
func (l *Loop) Run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		l.closed = true
		l.queue = nil
		l.mu.Unlock()
		close(l.stopped)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			fn()
			if ctx.Err() != nil {
				return
			}
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

// Stopped is closed when Run returns.
func (l *Loop) Stopped() <-chan struct{} { return l.stopped }

type loopTimer struct {
	t    *time.Timer
	done atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.t.Stop()
	return t.done.CompareAndSwap(false, true)
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if lt.done.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return lt
}
