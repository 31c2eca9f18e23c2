// Package eventbus delivers relay events to frontend windows. It implements
// port.EventEmitter: EmitTo reaches the handlers registered under one window
// label, Emit reaches every window. Observers see every event either way.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bnema/panehost/internal/logging"
)

// ErrNoSubscriber is returned by EmitTo when no window is listening under target.
var ErrNoSubscriber = errors.New("no subscriber for target window")

// observerKey is the subscription key for handlers that see every event.
const observerKey = "*"

// Event is one delivered message. Target is empty for broadcasts.
type Event struct {
	Target  string    `json:"target,omitempty"`
	Name    string    `json:"event"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Handler is called synchronously on the emitting goroutine and must not block.
type Handler func(Event)

type subscription struct {
	id      string
	handler Handler
}

// Hub is a synchronous fan-out emitter.
type Hub struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription // window label -> subscriptions
	logger        zerolog.Logger
	now           func() time.Time
}

// NewHub creates an empty hub.
func NewHub(ctx context.Context) *Hub {
	return &Hub{
		subscriptions: make(map[string][]subscription),
		logger:        logging.FromContext(ctx).With().Str("component", "eventbus").Logger(),
		now:           time.Now,
	}
}

// Subscribe registers handler for events addressed to window (and broadcasts).
// Returns a subscription ID for Unsubscribe.
func (h *Hub) Subscribe(window string, handler Handler) string {
	if window == observerKey {
		return h.Observe(handler)
	}
	return h.add(window, handler)
}

// Observe registers handler for every event regardless of target.
func (h *Hub) Observe(handler Handler) string {
	return h.add(observerKey, handler)
}

func (h *Hub) add(key string, handler Handler) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	h.subscriptions[key] = append(h.subscriptions[key], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a subscription by ID.
// Returns true if the subscription was found and removed.
func (h *Hub) Unsubscribe(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, subs := range h.subscriptions {
		for i, sub := range subs {
			if sub.id != id {
				continue
			}
			rest := append(subs[:i:i], subs[i+1:]...)
			if len(rest) == 0 {
				delete(h.subscriptions, key)
			} else {
				h.subscriptions[key] = rest
			}
			return true
		}
	}
	return false
}

// EmitTo delivers to window target only. Observers are notified even when
// no window is listening, in which case ErrNoSubscriber is returned.
func (h *Hub) EmitTo(target, event string, payload any) error {
	if target == "" || target == observerKey {
		return fmt.Errorf("invalid target window %q", target)
	}

	ev := Event{Target: target, Name: event, Payload: payload, At: h.now()}

	h.mu.RLock()
	addressed := append([]subscription(nil), h.subscriptions[target]...)
	observers := append([]subscription(nil), h.subscriptions[observerKey]...)
	h.mu.RUnlock()

	for _, sub := range addressed {
		h.safeCall(sub.handler, ev)
	}
	for _, sub := range observers {
		h.safeCall(sub.handler, ev)
	}

	if len(addressed) == 0 {
		return fmt.Errorf("%w: %q", ErrNoSubscriber, target)
	}
	return nil
}

// Emit broadcasts to every window, then to observers.
func (h *Hub) Emit(event string, payload any) error {
	ev := Event{Name: event, Payload: payload, At: h.now()}

	h.mu.RLock()
	var windows, observers []subscription
	for key, subs := range h.subscriptions {
		if key == observerKey {
			observers = append(observers, subs...)
			continue
		}
		windows = append(windows, subs...)
	}
	h.mu.RUnlock()

	for _, sub := range windows {
		h.safeCall(sub.handler, ev)
	}
	for _, sub := range observers {
		h.safeCall(sub.handler, ev)
	}
	return nil
}

// Windows returns the labels with at least one subscriber.
func (h *Hub) Windows() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, 0, len(h.subscriptions))
	for key := range h.subscriptions {
		if key != observerKey {
			out = append(out, key)
		}
	}
	return out
}

// SubscriptionCount returns the total number of active subscriptions.
func (h *Hub) SubscriptionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, subs := range h.subscriptions {
		count += len(subs)
	}
	return count
}

// safeCall invokes a handler and recovers from any panics so one broken
// subscriber cannot block delivery to the others.
func (h *Hub) safeCall(handler Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().
				Str("event", ev.Name).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("event handler panicked")
		}
	}()
	handler(ev)
}
