package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/panehost/internal/bootstrap"
	"github.com/bnema/panehost/internal/config"
	"github.com/bnema/panehost/internal/logging"
)

var (
	servePlatform string
	serveNoIPC    bool
	serveJournal  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pane host",
	Long: `Run the host window and its control socket until interrupted.

The headless platform runs pages in-process and needs no display. The gtk
platform embeds WebKitGTK webviews and requires a build with -tags gtk.

Examples:
  panehost serve                    # headless, socket at $XDG_RUNTIME_DIR/panehost.sock
  panehost serve --platform gtk     # WebKitGTK window
  panehost serve --journal          # also record telemetry to SQLite`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePlatform, "platform", "", "embedding platform: headless or gtk (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoIPC, "no-ipc", false, "do not open the control socket")
	serveCmd.Flags().BoolVar(&serveJournal, "journal", false, "record telemetry to the journal (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	cfg := app.Manager.Get()
	if servePlatform != "" {
		cfg.Platform = config.Platform(servePlatform)
	}
	if serveNoIPC {
		cfg.IPC.Enabled = false
	}
	if cmd.Flags().Changed("journal") {
		cfg.Journal.Enabled = serveJournal
	}
	cfg.IPC.SocketPath = app.SocketPath()
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger, closer, err := bootstrap.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	ctx := logging.WithContext(context.Background(), logger)
	app.UseLogger(ctx, closer)

	app.Manager.OnConfigChange(func(old, updated *config.Config) {
		if keys := config.RestartRequired(old, updated); len(keys) > 0 {
			logger.Warn().Strs("keys", keys).Msg("config changed, restart panehost to apply")
		}
	})
	if err := app.Manager.Watch(); err != nil {
		logger.Warn().Err(err).Msg("config watcher unavailable")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug().
		Str("config", app.Manager.GetConfigFile()).
		Str("platform", string(cfg.Platform)).
		Msg("starting panehost")
	return bootstrap.Serve(ctx, cfg, bootstrap.ServeOptions{})
}
