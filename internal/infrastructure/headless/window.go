// Package headless is an in-process embedding platform. Its host window keeps
// a registry of surfaces whose documents run in a sobek JavaScript runtime with
// location, history and document shims, so pane lifecycle, script-driven
// navigation and the instrumentation bridge work without a display server.
package headless

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/panehost/internal/application/port"
	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/logging"
)

var (
	// ErrSurfaceClosed is returned by operations on a destroyed surface.
	ErrSurfaceClosed = errors.New("surface closed")

	errPageGone = errors.New("page unloaded")
)

// Scheduler is the UI thread as seen by the platform.
type Scheduler interface {
	Post(fn func())
	Coalesce(key string, fn func())
}

// Options configures a Window.
type Options struct {
	// Label of the host window.
	Label string
	// ScaleFactor reported to callers. Defaults to 1.
	ScaleFactor float64
	// Width and Height of the content area in logical units.
	Width  float64
	Height float64
	// PageSetup runs in every document before the bridge and init script.
	PageSetup string
}

// Window is the headless host window and pane registry.
type Window struct {
	label  string
	width  float64
	height float64
	setup  string
	sched  Scheduler
	logger zerolog.Logger

	mu       sync.RWMutex
	scale    float64
	scaleErr error
	surfaces map[string]*Surface
}

var _ port.HostWindow = (*Window)(nil)

// NewWindow creates an empty host window.
func NewWindow(ctx context.Context, sched Scheduler, opts Options) *Window {
	if opts.Label == "" {
		opts.Label = "main"
	}
	if opts.ScaleFactor == 0 {
		opts.ScaleFactor = 1
	}
	return &Window{
		label:    opts.Label,
		width:    opts.Width,
		height:   opts.Height,
		setup:    opts.PageSetup,
		sched:    sched,
		logger:   logging.FromContext(ctx).With().Str("component", "headless").Logger(),
		scale:    opts.ScaleFactor,
		surfaces: make(map[string]*Surface),
	}
}

// Label returns the host window label.
func (w *Window) Label() string {
	return w.label
}

// Size returns the content area in logical units.
func (w *Window) Size() (float64, float64) {
	return w.width, w.height
}

// ScaleFactor returns the display scale factor.
func (w *Window) ScaleFactor() (float64, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.scaleErr != nil {
		return 0, w.scaleErr
	}
	if math.IsNaN(w.scale) || w.scale <= 0 {
		return 0, fmt.Errorf("window %q reports scale factor %v", w.label, w.scale)
	}
	return w.scale, nil
}

// SetScaleFactor simulates the window moving to another display.
func (w *Window) SetScaleFactor(scale float64) {
	w.mu.Lock()
	w.scale = scale
	w.scaleErr = nil
	w.mu.Unlock()
}

// FailScaleFactor makes ScaleFactor return err until SetScaleFactor is called.
func (w *Window) FailScaleFactor(err error) {
	w.mu.Lock()
	w.scaleErr = err
	w.mu.Unlock()
}

// Surface resolves a live surface by label.
func (w *Window) Surface(label string) (port.Surface, bool) {
	s, ok := w.lookup(label)
	if !ok {
		return nil, false
	}
	return s, true
}

// Lookup resolves a live surface by label with its concrete type.
func (w *Window) Lookup(label string) (*Surface, bool) {
	return w.lookup(label)
}

func (w *Window) lookup(label string) (*Surface, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.surfaces[label]
	return s, ok
}

// Surfaces returns the labels of live surfaces.
func (w *Window) Surfaces() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	labels := make([]string, 0, len(w.surfaces))
	for label := range w.surfaces {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// Panes returns a snapshot of every live surface.
func (w *Window) Panes() []entity.Pane {
	w.mu.RLock()
	surfaces := make([]*Surface, 0, len(w.surfaces))
	for _, s := range w.surfaces {
		surfaces = append(surfaces, s)
	}
	w.mu.RUnlock()

	panes := make([]entity.Pane, 0, len(surfaces))
	for _, s := range surfaces {
		panes = append(panes, s.Snapshot())
	}
	slices.SortFunc(panes, func(a, b entity.Pane) int {
		switch {
		case a.Label < b.Label:
			return -1
		case a.Label > b.Label:
			return 1
		default:
			return 0
		}
	})
	return panes
}

// AttachChild creates a surface and starts loading spec.URL. Loading happens
// in a later UI task, as it does on a real engine.
func (w *Window) AttachChild(spec port.SurfaceSpec) (port.Surface, error) {
	if err := entity.ValidateLabel(spec.Label); err != nil {
		return nil, err
	}
	if err := spec.Bounds.Validate(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	if _, exists := w.surfaces[spec.Label]; exists {
		w.mu.Unlock()
		return nil, fmt.Errorf("surface %q: %w", spec.Label, entity.ErrPaneExists)
	}
	s := newSurface(w, spec)
	w.surfaces[spec.Label] = s
	w.mu.Unlock()

	w.logger.Debug().Str("pane", spec.Label).Stringer("bounds", spec.Bounds).Msg("surface attached")
	s.scheduleLoad(spec.URL, historyPush)
	return s, nil
}

func (w *Window) remove(s *Surface) {
	w.mu.Lock()
	if cur, ok := w.surfaces[s.label]; ok && cur == s {
		delete(w.surfaces, s.label)
	}
	w.mu.Unlock()
}
