// Package mainloop provides the single UI-affinity thread that every native
// surface mutation is funneled through.
package mainloop

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/panehost/internal/logging"
)

// ErrStopped is returned when work is submitted to a loop that has shut down.
var ErrStopped = errors.New("main loop stopped")

// Loop runs posted tasks in FIFO order on one goroutine locked to its OS thread.
// The queue is unbounded so Post never blocks, even from inside a task.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	started bool
	stopped bool
	logger  zerolog.Logger

	coalescer *Coalescer
}

// New creates a loop. Call Run to start processing.
func New(ctx context.Context) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logging.FromContext(ctx).With().Str("component", "mainloop").Logger(),
	}
	l.coalescer = NewCoalescer(l.Post)
	return l
}

// Run processes tasks until ctx is cancelled. Tasks queued at cancellation are
// still executed before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return fmt.Errorf("main loop already running")
	}
	l.started = true
	l.mu.Unlock()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)

	for {
		for _, task := range l.take() {
			l.run(task)
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			l.mu.Lock()
			l.stopped = true
			l.mu.Unlock()
			l.coalescer.Stop()
			for _, task := range l.take() {
				l.run(task)
			}
			return nil
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post schedules fn without waiting. Work posted after shutdown is dropped.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	if !l.enqueue(fn) {
		l.logger.Debug().Msg("dropping task posted after shutdown")
	}
}

// Coalesce schedules fn, replacing any not-yet-run work with the same key.
func (l *Loop) Coalesce(key string, fn func()) {
	l.coalescer.Post(key, fn)
}

// Invoke runs fn on the loop and waits for its error. If ctx ends first the
// caller gets ctx.Err() while fn still runs. Calling Invoke from a task
// deadlocks the loop.
func (l *Loop) Invoke(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result := make(chan error, 1)
	if !l.enqueue(func() { result <- l.call(fn) }) {
		return ErrStopped
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	}
}

func (l *Loop) enqueue(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	tasks := l.queue
	l.queue = nil
	return tasks
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().Interface("panic", r).Msg("main loop task panicked")
		}
	}()
	task()
}

func (l *Loop) call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("main loop task panicked: %v", r)
		}
	}()
	return fn()
}
