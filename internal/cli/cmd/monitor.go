package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/panehost/internal/cli/model"
	"github.com/bnema/panehost/internal/infrastructure/ipc"
)

var (
	monitorTarget    string
	monitorMaxEvents int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch relay events from a running host",
	Long: `Open a live view of the events a running host relays to its UI:
navigation, page loads, title changes and pane telemetry.

Examples:
  panehost monitor               # every window
  panehost monitor --target main # one window`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().StringVarP(&monitorTarget, "target", "t", ipc.SubscribeAll, "window label to watch")
	monitorCmd.Flags().IntVar(&monitorMaxEvents, "max-events", 0, "events kept on screen (default 500)")
}

func runMonitor(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	m := model.NewMonitorModel(app.Ctx(), app.Theme, model.MonitorModelConfig{
		Source:    app.Client(),
		Target:    monitorTarget,
		MaxEvents: monitorMaxEvents,
		Socket:    app.SocketPath(),
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
