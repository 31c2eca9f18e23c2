package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bnema/panehost/internal/application/port"
	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/logging"
)

// DefaultRelayTarget is the frontend window that receives pane events.
const DefaultRelayTarget = "main"

// RelayEventsUseCase forwards pane-originated signals to one fixed frontend
// window. Delivery is best-effort: emission errors and panics never reach the
// caller.
type RelayEventsUseCase struct {
	emitter port.EventEmitter
	target  string
	dropped atomic.Uint64
	now     func() time.Time
}

// NewRelayEventsUseCase creates a relay addressed to target.
func NewRelayEventsUseCase(emitter port.EventEmitter, target string) *RelayEventsUseCase {
	if target == "" {
		target = DefaultRelayTarget
	}
	return &RelayEventsUseCase{
		emitter: emitter,
		target:  target,
		now:     time.Now,
	}
}

// Target returns the destination window label.
func (uc *RelayEventsUseCase) Target() string {
	return uc.target
}

// Dropped returns how many page messages were rejected.
func (uc *RelayEventsUseCase) Dropped() uint64 {
	return uc.dropped.Load()
}

// NavigationStarted emits pane-navigation-started.
func (uc *RelayEventsUseCase) NavigationStarted(ctx context.Context, label, url string) {
	uc.emit(ctx, entity.EventPaneNavigationStarted, entity.NavigationEvent{Label: label, URL: url})
}

// Navigated emits pane-navigated once a page has finished loading.
func (uc *RelayEventsUseCase) Navigated(ctx context.Context, label, url string) {
	uc.emit(ctx, entity.EventPaneNavigated, entity.NavigationEvent{Label: label, URL: url})
}

// TitleChanged emits pane-title-changed.
func (uc *RelayEventsUseCase) TitleChanged(ctx context.Context, label, title string) {
	uc.emit(ctx, entity.EventPaneTitleChanged, entity.TitleEvent{Label: label, Title: title})
}

// Telemetry validates a payload posted by the page of pane label and emits it
// as pane-telemetry. The label is always the originating pane's, whatever the
// page claims.
func (uc *RelayEventsUseCase) Telemetry(ctx context.Context, label string, payload json.RawMessage) {
	log := logging.FromContext(ctx)

	var ev entity.TelemetryEvent
	if err := json.Unmarshal(payload, &ev); err != nil || ev == nil {
		uc.dropped.Add(1)
		log.Debug().Err(err).Str("pane", label).Msg("dropping malformed telemetry payload")
		return
	}
	if !ev.Kind().Valid() {
		uc.dropped.Add(1)
		log.Debug().Str("pane", label).Str("kind", string(ev.Kind())).Msg("dropping telemetry with unknown kind")
		return
	}

	ev["label"] = label
	if ev.Timestamp() <= 0 {
		ev["ts"] = uc.now().UnixMilli()
	}
	uc.emit(ctx, entity.EventPaneTelemetry, ev)
}

// HandleScriptMessage accepts a bridge message from pane label. Only
// pane-telemetry is relayed; the page cannot pick the destination.
func (uc *RelayEventsUseCase) HandleScriptMessage(ctx context.Context, label string, msg port.ScriptMessage) {
	if msg.Event != entity.EventPaneTelemetry {
		uc.dropped.Add(1)
		logging.FromContext(ctx).Debug().
			Str("pane", label).
			Str("event", msg.Event).
			Msg("dropping unsupported page event")
		return
	}
	uc.Telemetry(ctx, label, msg.Payload)
}

func (uc *RelayEventsUseCase) emit(ctx context.Context, event string, payload any) {
	log := logging.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Str("event", event).Str("panic", fmt.Sprint(r)).Msg("event emitter panicked")
		}
	}()

	if uc.emitter == nil {
		return
	}
	if err := uc.emitter.EmitTo(uc.target, event, payload); err != nil {
		log.Debug().Err(err).Str("event", event).Str("target", uc.target).Msg("event delivery failed")
	}
}
