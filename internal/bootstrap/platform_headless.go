package bootstrap

import (
	"context"

	"github.com/bnema/panehost/internal/application/port"
	"github.com/bnema/panehost/internal/config"
	"github.com/bnema/panehost/internal/infrastructure/headless"
	"github.com/bnema/panehost/internal/ui/mainloop"
)

type headlessPlatform struct {
	loop   *mainloop.Loop
	window *headless.Window
}

func newHeadlessPlatform(ctx context.Context, cfg *config.Config) *headlessPlatform {
	loop := mainloop.New(ctx)
	window := headless.NewWindow(ctx, loop, headless.Options{
		Label:       cfg.Relay.Target,
		ScaleFactor: cfg.Window.ScaleFactor,
		Width:       float64(cfg.Window.Width),
		Height:      float64(cfg.Window.Height),
	})
	return &headlessPlatform{loop: loop, window: window}
}

func (p *headlessPlatform) Name() config.Platform { return config.PlatformHeadless }

func (p *headlessPlatform) Host() port.HostWindow { return p.window }

func (p *headlessPlatform) UI() port.UIThread { return p.loop }

// Window exposes the headless registry for inspection.
func (p *headlessPlatform) Window() *headless.Window { return p.window }

func (p *headlessPlatform) Attach(context.Context, Frontend) error { return nil }

func (p *headlessPlatform) Run(ctx context.Context) error {
	return p.loop.Run(ctx)
}
