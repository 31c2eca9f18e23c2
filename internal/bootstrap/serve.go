package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/panehost/internal/config"
	"github.com/bnema/panehost/internal/logging"
)

// DefaultShutdownTimeout bounds how long closing panes may take on exit.
const DefaultShutdownTimeout = 5 * time.Second

// ServeOptions tunes Serve. Zero values select the defaults.
type ServeOptions struct {
	ShutdownTimeout time.Duration
	// Ready is called once the stack is listening, before the UI loop runs.
	Ready func(*Stack)
}

// Serve builds the stack for cfg and runs the UI loop on the calling
// goroutine until ctx ends or the platform stops on its own. Panes are
// closed while the loop is still alive; the loop is stopped last.
func Serve(ctx context.Context, cfg *config.Config, opts ServeOptions) error {
	timer := NewStartupTimer()
	platform, err := NewPlatform(ctx, cfg)
	if err != nil {
		return err
	}
	timer.Mark("platform")
	return serveOn(ctx, cfg, platform, timer, opts)
}

func serveOn(ctx context.Context, cfg *config.Config, platform Platform, timer *StartupTimer, opts ServeOptions) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	log := logging.FromContext(ctx)

	stack, err := Build(ctx, cfg, platform)
	if err != nil {
		return err
	}
	timer.Mark("stack")

	if err := platform.Attach(ctx, stack); err != nil {
		_ = stack.Shutdown(ctx)
		return err
	}
	if err := stack.Start(); err != nil {
		_ = stack.Shutdown(ctx)
		return err
	}
	timer.Mark("ipc")

	// The loop outlives ctx so panes can still be closed on it.
	runCtx, stopLoop := context.WithCancel(context.WithoutCancel(ctx))
	defer stopLoop()
	loopExited := make(chan struct{})

	var g errgroup.Group
	g.Go(func() error {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.ShutdownTimeout)
		defer cancel()

		var errs []error
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			errs = append(errs, stack.ClosePanes(shutdownCtx))
			stopLoop()
		case <-loopExited:
			log.Info().Msg("host window closed")
		}
		errs = append(errs, stack.Shutdown(shutdownCtx))
		return errors.Join(errs...)
	})

	timer.Log(ctx, zerolog.DebugLevel)
	log.Info().
		Str("platform", string(platform.Name())).
		Str("target", stack.Relay.Target()).
		Msg("panehost ready")
	if opts.Ready != nil {
		opts.Ready(stack)
	}

	runErr := platform.Run(runCtx)
	close(loopExited)
	return errors.Join(runErr, g.Wait())
}
