// Package cmd provides Cobra CLI commands for panehost.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/panehost/internal/cli"
	"github.com/bnema/panehost/internal/domain/build"
)

var (
	app        *cli.App
	buildInfo  build.Info
	socketFlag string
	rootCmd    = &cobra.Command{
		Use:   "panehost",
		Short: "Embed and drive web panes inside a host window",
		Long: `panehost attaches native web panes to a host window, keeps them positioned
in the window's coordinate space and relays their navigation, title and
telemetry events to the host UI.

Use 'panehost serve' to run the host, then drive it with 'panehost pane',
watch it with 'panehost monitor' and inspect recorded telemetry with
'panehost journal'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion":
				return nil
			}
			if cmd.Annotations[annotationStandalone] != "" {
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			app.SocketOverride = socketFlag
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// annotationStandalone marks commands that run without loading the config.
const annotationStandalone = "standalone"

// errSilent fails the command after it already rendered its own error.
var errSilent = errors.New("command failed")

func init() {
	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "control socket path (overrides ipc.socket_path)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
