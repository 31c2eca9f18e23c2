package bootstrap

import (
	"context"
	"fmt"

	"github.com/bnema/panehost/internal/application/port"
	"github.com/bnema/panehost/internal/config"
	"github.com/bnema/panehost/internal/infrastructure/eventbus"
)

// Frontend is what a platform's own chrome needs from the running server.
type Frontend interface {
	DispatchJSON(ctx context.Context, raw []byte) []byte
	Subscribe(window string, handler eventbus.Handler) string
	Unsubscribe(id string) bool
}

// Platform is an embedding backend: a host window, its UI thread and the
// loop that drives it.
type Platform interface {
	Name() config.Platform
	Host() port.HostWindow
	UI() port.UIThread
	// Attach connects the platform's chrome, if any, to the server.
	Attach(ctx context.Context, frontend Frontend) error
	// Run drives the UI thread until ctx ends or the window is closed.
	// It must be called from the main goroutine.
	Run(ctx context.Context) error
}

// NewPlatform creates the backend selected by cfg.Platform.
func NewPlatform(ctx context.Context, cfg *config.Config) (Platform, error) {
	switch cfg.Platform {
	case config.PlatformHeadless, "":
		return newHeadlessPlatform(ctx, cfg), nil
	case config.PlatformGTK:
		return newGTKPlatform(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown platform %q", cfg.Platform)
	}
}
