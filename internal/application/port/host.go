// Package port defines application-layer interfaces for external capabilities.
// Ports abstract the embedding platform (WebKitGTK, the headless runtime) so the
// pane use cases stay independent of any specific implementation.
package port

import (
	"encoding/json"

	"github.com/bnema/panehost/internal/domain/entity"
)

//go:generate mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks

// ScriptMessage is a message posted by page script through the pane bridge.
// Target is empty when the page used the broadcast form.
type ScriptMessage struct {
	Target  string
	Event   string
	Payload json.RawMessage
}

// Broadcast reports whether the page did not address a specific window.
func (m ScriptMessage) Broadcast() bool {
	return m.Target == ""
}

// SurfaceCallbacks defines callback handlers for native surface events.
// Platforms invoke these on the UI thread. Handlers must not call UIThread.Invoke.
type SurfaceCallbacks struct {
	// OnNavigationStarted is called when a navigation begins, before OnPageLoad
	// for the same navigation.
	OnNavigationStarted func(url string)
	// OnPageLoad is called when the page has finished loading.
	OnPageLoad func(url string)
	// OnTitleChanged is called when the document title changes.
	OnTitleChanged func(title string)
	// OnScriptMessage is called for every message the page posts via the bridge.
	OnScriptMessage func(msg ScriptMessage)
}

// SurfaceSpec describes a child surface to attach to the host window.
// Bounds are in the platform's logical units.
type SurfaceSpec struct {
	Label      string
	URL        string
	Bounds     entity.Rect
	InitScript string
	Callbacks  SurfaceCallbacks
}

// Surface is a native browsing surface owned by the host window.
// Every method must be called on the UI thread.
type Surface interface {
	Label() string
	Show() error
	Hide() error
	// Close destroys the surface and removes it from the host's registry.
	Close() error
	SetPosition(x, y float64) error
	SetSize(width, height float64) error
	// Evaluate dispatches script into the page without waiting for a result.
	Evaluate(script string) error
}

// HostWindow is the top-level window that owns every pane surface.
// It is the pane registry: lookups go through Surface on every call.
type HostWindow interface {
	Label() string
	ScaleFactor() (float64, error)
	Surface(label string) (Surface, bool)
	Surfaces() []string
	AttachChild(spec SurfaceSpec) (Surface, error)
}
