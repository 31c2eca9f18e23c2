package headless

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bnema/panehost/internal/application/port"
	"github.com/bnema/panehost/internal/domain/entity"
	urlutil "github.com/bnema/panehost/internal/domain/url"
)

type historyMode int

const (
	historyPush historyMode = iota
	historyKeep
)

// Surface is a headless pane. Methods from port.Surface must be called on
// the UI thread; Snapshot is safe from any goroutine.
type Surface struct {
	window     *Window
	label      string
	initScript string
	callbacks  port.SurfaceCallbacks
	logger     zerolog.Logger

	mu         sync.RWMutex
	bounds     entity.Rect
	visibility entity.Visibility
	url        string
	title      string
	closed     bool

	// UI thread only.
	page      *page
	entries   []string
	index     int
	selection string
}

var _ port.Surface = (*Surface)(nil)

func newSurface(w *Window, spec port.SurfaceSpec) *Surface {
	return &Surface{
		window:     w,
		label:      spec.Label,
		initScript: spec.InitScript,
		callbacks:  spec.Callbacks,
		logger:     w.logger.With().Str("pane", spec.Label).Logger(),
		bounds:     spec.Bounds,
		visibility: entity.VisibilityShown,
		index:      -1,
	}
}

// Label returns the pane label.
func (s *Surface) Label() string {
	return s.label
}

// Show makes the surface visible.
func (s *Surface) Show() error {
	return s.setVisibility(entity.VisibilityShown)
}

// Hide hides the surface. Its document keeps running.
func (s *Surface) Hide() error {
	return s.setVisibility(entity.VisibilityHidden)
}

func (s *Surface) setVisibility(v entity.Visibility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	s.visibility = v
	return nil
}

// Close unloads the document and removes the surface from its window.
// Closing twice is a no-op.
func (s *Surface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.page != nil {
		s.page.teardown()
		s.page = nil
	}
	s.window.remove(s)
	s.logger.Debug().Msg("surface closed")
	return nil
}

// SetPosition moves the surface.
func (s *Surface) SetPosition(x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	next := s.bounds
	next.X, next.Y = x, y
	if err := next.Validate(); err != nil {
		return err
	}
	s.bounds = next
	return nil
}

// SetSize resizes the surface.
func (s *Surface) SetSize(width, height float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSurfaceClosed
	}
	next := s.bounds
	next.Width, next.Height = width, height
	if err := next.Validate(); err != nil {
		return err
	}
	s.bounds = next
	return nil
}

// Evaluate queues script for the current document. Exceptions thrown by the
// script are logged, not returned: the caller only learns it was dispatched.
func (s *Surface) Evaluate(script string) error {
	if s.isClosed() {
		return ErrSurfaceClosed
	}
	s.window.sched.Post(func() {
		if s.isClosed() || s.page == nil {
			return
		}
		if _, err := s.page.run("evaluate", script); err != nil {
			s.logger.Debug().Err(err).Msg("evaluated script threw")
		}
	})
	return nil
}

// SelectText changes the document selection and fires selectionchange.
// Must be called on the UI thread.
func (s *Surface) SelectText(text string) {
	s.selection = text
	if s.page != nil {
		s.page.dispatch("document", "selectionchange")
	}
}

// Snapshot returns the surface state.
func (s *Surface) Snapshot() entity.Pane {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entity.Pane{
		Label:      s.label,
		URL:        s.url,
		Title:      s.title,
		Bounds:     s.bounds,
		Visibility: s.visibility,
	}
}

func (s *Surface) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Surface) selectionText() string {
	return s.selection
}

func (s *Surface) historyLength() int {
	return len(s.entries)
}

func (s *Surface) scheduleLoad(target string, mode historyMode) {
	s.window.sched.Post(func() {
		if s.isClosed() {
			return
		}
		if mode == historyPush {
			s.entries = append(s.entries[:s.index+1], target)
			s.index = len(s.entries) - 1
		}
		s.load(target)
	})
}

func (s *Surface) scheduleHistory(delta int) {
	s.window.sched.Post(func() {
		next := s.index + delta
		if delta == 0 || next < 0 || next >= len(s.entries) || s.isClosed() {
			return
		}
		s.index = next
		s.load(s.entries[next])
	})
}

// load replaces the current document. Callbacks fire in navigation order:
// started, then page load.
func (s *Surface) load(target string) {
	if s.page != nil {
		s.page.teardown()
		s.page = nil
	}
	s.selection = ""

	s.mu.Lock()
	s.url = target
	s.title = ""
	s.mu.Unlock()

	if cb := s.callbacks.OnNavigationStarted; cb != nil {
		cb(target)
	}

	p, err := newPage(s, target)
	if err != nil {
		s.logger.Error().Err(err).Str("url", target).Msg("failed to create page")
		return
	}
	s.page = p

	if s.window.setup != "" {
		if _, err := p.run("setup.js", s.window.setup); err != nil {
			s.logger.Warn().Err(err).Msg("page setup script failed")
		}
	}
	if s.initScript != "" {
		if _, err := p.run(fmt.Sprintf("init-%s.js", s.label), s.initScript); err != nil {
			s.logger.Warn().Err(err).Msg("init script failed")
		}
	}

	if title := defaultTitle(target); title != "" {
		if _, err := p.run("title.js", "document.title = "+jsQuote(title)+";"); err != nil {
			s.logger.Debug().Err(err).Msg("failed to set document title")
		}
	}
	p.setReadyState("interactive")
	p.dispatch("document", "DOMContentLoaded")
	p.setReadyState("complete")
	p.dispatch("window", "load")

	if !p.alive {
		return
	}
	if cb := s.callbacks.OnPageLoad; cb != nil {
		cb(target)
	}
}

func (s *Surface) titleChanged(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()

	s.window.sched.Coalesce("title:"+s.label, func() {
		if s.isClosed() {
			return
		}
		s.mu.RLock()
		current := s.title
		s.mu.RUnlock()
		if cb := s.callbacks.OnTitleChanged; cb != nil {
			cb(current)
		}
	})
}

// defaultTitle stands in for the document's <title>: the host name of
// network URLs, nothing for local documents.
func defaultTitle(target string) string {
	return urlutil.ExtractDomain(target)
}
