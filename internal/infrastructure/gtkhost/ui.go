//go:build gtk

package gtkhost

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/rs/zerolog"
)

// ErrStopped is returned when work is submitted after the GTK loop quit.
var ErrStopped = errors.New("gtk main loop stopped")

// UIThread schedules work on the GLib main context through idle sources.
type UIThread struct {
	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
	logger  zerolog.Logger
}

func newUIThread(logger zerolog.Logger) *UIThread {
	return &UIThread{done: make(chan struct{}), logger: logger}
}

// Post schedules fn without waiting. Work posted after the loop quit is dropped.
func (u *UIThread) Post(fn func()) {
	if fn == nil {
		return
	}
	if !u.schedule(func() { u.run(fn) }) {
		u.logger.Debug().Msg("dropping task posted after shutdown")
	}
}

// Invoke runs fn on the GTK thread and waits for its error. If ctx ends
// first the caller gets ctx.Err() while fn still runs.
func (u *UIThread) Invoke(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result := make(chan error, 1)
	if !u.schedule(func() { result <- u.call(fn) }) {
		return ErrStopped
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-u.done:
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	}
}

func (u *UIThread) schedule(task func()) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.stopped {
		return false
	}
	glib.IdleAdd(func() bool {
		task()
		return false
	})
	return true
}

// stop is called on the GTK thread once the main loop returned.
func (u *UIThread) stop() {
	u.mu.Lock()
	if !u.stopped {
		u.stopped = true
		close(u.done)
	}
	u.mu.Unlock()
}

func (u *UIThread) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error().Interface("panic", r).Msg("gtk task panicked")
		}
	}()
	fn()
}

func (u *UIThread) call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gtk task panicked: %v", r)
		}
	}()
	return fn()
}
