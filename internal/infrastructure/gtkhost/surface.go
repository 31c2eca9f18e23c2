//go:build gtk

package gtkhost

import (
	"context"
	"errors"
	"math"

	"github.com/diamondburned/gotk4-webkitgtk/pkg/javascriptcore/v6"
	webkit "github.com/diamondburned/gotk4-webkitgtk/pkg/webkit/v6"

	"github.com/bnema/panehost/internal/application/port"
	"github.com/bnema/panehost/internal/infrastructure/bridge"
)

// ErrSurfaceClosed is returned by operations on a destroyed surface.
var ErrSurfaceClosed = errors.New("surface closed")

// Surface is one pane webview.
type Surface struct {
	label  string
	window *Window
	view   *webkit.WebView
	cb     port.SurfaceCallbacks
	closed bool
}

var _ port.Surface = (*Surface)(nil)

func newSurface(w *Window, spec port.SurfaceSpec) (*Surface, error) {
	view := webkit.NewWebView()
	if view == nil {
		return nil, errors.New("webkit returned no webview")
	}
	s := &Surface{label: spec.Label, window: w, view: view, cb: spec.Callbacks}

	ucm := view.UserContentManager()
	if ucm == nil {
		return nil, errors.New("webview has no user content manager")
	}
	ucm.AddScript(documentStartScript(bridge.ShimScript(bridge.HandlerName)))
	if spec.InitScript != "" {
		ucm.AddScript(documentStartScript(spec.InitScript))
	}
	ucm.ConnectScriptMessageReceived(s.onScriptMessage)
	if !ucm.RegisterScriptMessageHandler(bridge.HandlerName, "") {
		return nil, errors.New("register script message handler")
	}

	view.Connect("notify::title", func() {
		if s.cb.OnTitleChanged != nil && !s.closed {
			s.cb.OnTitleChanged(view.Title())
		}
	})
	view.ConnectLoadChanged(func(event webkit.LoadEvent) {
		if s.closed {
			return
		}
		switch event {
		case webkit.LoadStarted:
			if s.cb.OnNavigationStarted != nil {
				s.cb.OnNavigationStarted(view.URI())
			}
		case webkit.LoadFinished:
			if s.cb.OnPageLoad != nil {
				s.cb.OnPageLoad(view.URI())
			}
		}
	})

	b := spec.Bounds
	view.SetSizeRequest(pixels(b.Width), pixels(b.Height))
	w.fixed.Put(view, b.X, b.Y)
	view.LoadURI(spec.URL)
	return s, nil
}

func documentStartScript(source string) *webkit.UserScript {
	return webkit.NewUserScript(
		source,
		webkit.UserContentInjectTopFrame,
		webkit.UserScriptInjectAtDocumentStart,
		nil,
		nil,
	)
}

func (s *Surface) onScriptMessage(value *javascriptcore.Value) {
	if s.closed || s.cb.OnScriptMessage == nil || value == nil {
		return
	}
	msg, err := decodeValue(value)
	if err != nil {
		s.window.logger.Warn().Err(err).Str("pane", s.label).Msg("dropping malformed bridge message")
		return
	}
	s.cb.OnScriptMessage(msg)
}

// decodeValue accepts the JSON string the shim posts or a plain object.
func decodeValue(value *javascriptcore.Value) (port.ScriptMessage, error) {
	if value.IsString() {
		return bridge.Decode([]byte(value.ToString()))
	}
	return bridge.Decode([]byte(value.ToJSON(0)))
}

// Label returns the pane label.
func (s *Surface) Label() string {
	return s.label
}

// Show makes the webview visible.
func (s *Surface) Show() error {
	if s.closed {
		return ErrSurfaceClosed
	}
	s.view.SetVisible(true)
	return nil
}

// Hide hides the webview without unloading its page.
func (s *Surface) Hide() error {
	if s.closed {
		return ErrSurfaceClosed
	}
	s.view.SetVisible(false)
	return nil
}

// Close removes the webview from the window and the registry.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.window.remove(s)
	s.window.fixed.Remove(s.view)
	return nil
}

// SetPosition moves the webview within the window.
func (s *Surface) SetPosition(x, y float64) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	s.window.fixed.Move(s.view, x, y)
	return nil
}

// SetSize requests a new webview size.
func (s *Surface) SetSize(width, height float64) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	s.view.SetSizeRequest(pixels(width), pixels(height))
	return nil
}

// Evaluate runs script in the page without waiting for its result.
func (s *Surface) Evaluate(script string) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	s.view.EvaluateJavascript(context.Background(), script, -1, "", "", nil)
	return nil
}

func pixels(v float64) int {
	return int(math.Round(v))
}
