// Package cli holds the dependencies shared by the panehost commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bnema/panehost/internal/cli/styles"
	"github.com/bnema/panehost/internal/config"
	"github.com/bnema/panehost/internal/domain/build"
	"github.com/bnema/panehost/internal/infrastructure/ipc"
	"github.com/bnema/panehost/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	// SocketOverride replaces the configured socket path when set.
	SocketOverride string

	ctx      context.Context
	logClose io.Closer
}

// NewApp loads the config and sets up a quiet logger. Commands that need
// their own logging (serve) replace it with UseLogger.
func NewApp() (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, err
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	level := "warn"
	if envLevel := os.Getenv("PANEHOST_LOG_LEVEL"); envLevel != "" {
		level = envLevel
	}
	logger := logging.NewFromConfigValues(level, "console")

	return &App{
		Config:  cfg,
		Manager: mgr,
		Theme:   styles.NewTheme(),
		ctx:     logging.WithContext(context.Background(), logger),
	}, nil
}

// UseLogger swaps the context logger. closer is released by Close.
func (a *App) UseLogger(ctx context.Context, closer io.Closer) {
	if a.logClose != nil {
		_ = a.logClose.Close()
	}
	a.ctx = ctx
	a.logClose = closer
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// SocketPath returns the control socket path in effect.
func (a *App) SocketPath() string {
	if a.SocketOverride != "" {
		return a.SocketOverride
	}
	if a.Config.IPC.SocketPath != "" {
		return a.Config.IPC.SocketPath
	}
	return ipc.DefaultSocketPath()
}

// Client returns a control socket client.
func (a *App) Client() *ipc.Client {
	return ipc.NewClient(a.SocketPath())
}

// Close releases all resources.
func (a *App) Close() error {
	if a.logClose != nil {
		return a.logClose.Close()
	}
	return nil
}
