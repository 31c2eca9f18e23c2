package port

import "context"

//go:generate mockgen -source=runtime.go -destination=mocks/mock_runtime.go -package=mocks

// UIThread marshals work onto the platform's single UI-affinity thread.
type UIThread interface {
	// Post schedules fn without waiting.
	Post(fn func())
	// Invoke runs fn on the UI thread and waits for its result. If ctx ends
	// first, Invoke returns ctx.Err() and fn still runs.
	Invoke(ctx context.Context, fn func() error) error
}

// EventEmitter delivers events to frontend windows.
type EventEmitter interface {
	// EmitTo delivers to the window with the given label only.
	EmitTo(target, event string, payload any) error
	// Emit broadcasts to every window.
	Emit(event string, payload any) error
}

// ScriptBuilder renders the initialization script injected into a pane.
type ScriptBuilder interface {
	Build(label string) (string, error)
}
