//go:build gtk

package bootstrap

import (
	"context"

	"github.com/bnema/panehost/internal/application/port"
	"github.com/bnema/panehost/internal/config"
	"github.com/bnema/panehost/internal/infrastructure/gtkhost"
)

type gtkPlatform struct {
	app *gtkhost.App
}

func newGTKPlatform(ctx context.Context, cfg *config.Config) (Platform, error) {
	app, err := gtkhost.New(ctx, gtkhost.Options{
		Label:       cfg.Relay.Target,
		Title:       cfg.Window.Title,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		FrontendURL: cfg.Window.FrontendURL,
	})
	if err != nil {
		return nil, err
	}
	return &gtkPlatform{app: app}, nil
}

func (p *gtkPlatform) Name() config.Platform { return config.PlatformGTK }

func (p *gtkPlatform) Host() port.HostWindow { return p.app.Window() }

func (p *gtkPlatform) UI() port.UIThread { return p.app.UI() }

func (p *gtkPlatform) Attach(ctx context.Context, frontend Frontend) error {
	return p.app.AttachFrontend(ctx, frontend)
}

func (p *gtkPlatform) Run(ctx context.Context) error {
	return p.app.Run(ctx)
}
