//go:build gtk

package gtkhost

import (
	"fmt"
	"slices"
	"sync"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/rs/zerolog"

	"github.com/bnema/panehost/internal/application/port"
	"github.com/bnema/panehost/internal/domain/entity"
)

// Window is the GTK host window and pane registry. Panes are webviews placed
// on a gtk.Fixed above the chrome webview.
type Window struct {
	label  string
	win    *gtk.Window
	fixed  *gtk.Fixed
	logger zerolog.Logger

	mu       sync.RWMutex
	surfaces map[string]*Surface
}

var _ port.HostWindow = (*Window)(nil)

func newWindow(label string, win *gtk.Window, fixed *gtk.Fixed, logger zerolog.Logger) *Window {
	return &Window{
		label:    label,
		win:      win,
		fixed:    fixed,
		logger:   logger,
		surfaces: make(map[string]*Surface),
	}
}

// Label returns the host window label.
func (w *Window) Label() string {
	return w.label
}

// ScaleFactor reports the device scale of the monitor showing the window.
func (w *Window) ScaleFactor() (float64, error) {
	scale := w.win.ScaleFactor()
	if scale <= 0 {
		return 0, fmt.Errorf("window %q reports scale factor %d", w.label, scale)
	}
	return float64(scale), nil
}

// Surface returns the live surface for label.
func (w *Window) Surface(label string) (port.Surface, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.surfaces[label]
	if !ok {
		return nil, false
	}
	return s, true
}

// Surfaces returns the labels of every live surface, sorted.
func (w *Window) Surfaces() []string {
	w.mu.RLock()
	labels := make([]string, 0, len(w.surfaces))
	for label := range w.surfaces {
		labels = append(labels, label)
	}
	w.mu.RUnlock()
	slices.Sort(labels)
	return labels
}

// AttachChild creates a webview for spec and places it on the window.
func (w *Window) AttachChild(spec port.SurfaceSpec) (port.Surface, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.surfaces[spec.Label]; exists {
		return nil, fmt.Errorf("surface %q: %w", spec.Label, entity.ErrPaneExists)
	}
	s, err := newSurface(w, spec)
	if err != nil {
		return nil, err
	}
	w.surfaces[spec.Label] = s
	w.logger.Debug().Str("pane", spec.Label).Int("count", len(w.surfaces)).Msg("surface attached")
	return s, nil
}

// closeAll destroys every surface. Used when the window itself is closing.
func (w *Window) closeAll() {
	w.mu.RLock()
	surfaces := make([]*Surface, 0, len(w.surfaces))
	for _, s := range w.surfaces {
		surfaces = append(surfaces, s)
	}
	w.mu.RUnlock()

	for _, s := range surfaces {
		_ = s.Close()
	}
}

func (w *Window) remove(s *Surface) {
	w.mu.Lock()
	if cur, ok := w.surfaces[s.label]; ok && cur == s {
		delete(w.surfaces, s.label)
	}
	w.mu.Unlock()
}
