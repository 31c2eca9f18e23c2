package bridge

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bnema/panehost/internal/application/port"
	"github.com/bnema/panehost/internal/logging"
)

// HandlerFunc handles one message posted by the page of pane label.
type HandlerFunc func(ctx context.Context, label string, msg port.ScriptMessage)

// Router dispatches page messages by event name.
type Router struct {
	mu       sync.RWMutex
	routes   map[string]HandlerFunc
	fallback HandlerFunc
	unrouted atomic.Uint64
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[string]HandlerFunc)}
}

// Handle registers h for event, replacing any previous handler.
func (r *Router) Handle(event string, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h == nil {
		delete(r.routes, event)
		return
	}
	r.routes[event] = h
}

// HandleDefault registers the handler for events with no explicit route.
func (r *Router) HandleDefault(h HandlerFunc) {
	r.mu.Lock()
	r.fallback = h
	r.mu.Unlock()
}

// Route dispatches msg. Handler panics are recovered and logged; a page must
// never be able to take the UI thread down.
func (r *Router) Route(ctx context.Context, label string, msg port.ScriptMessage) {
	r.mu.RLock()
	h, ok := r.routes[msg.Event]
	if !ok {
		h = r.fallback
	}
	r.mu.RUnlock()

	log := logging.FromContext(ctx)
	if h == nil {
		r.unrouted.Add(1)
		log.Debug().Str("pane", label).Str("event", msg.Event).Msg("no route for page message")
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("pane", label).Str("event", msg.Event).Interface("panic", rec).Msg("page message handler panicked")
		}
	}()
	h(ctx, label, msg)
}

// Unrouted returns the number of messages that matched no handler.
func (r *Router) Unrouted() uint64 {
	return r.unrouted.Load()
}
