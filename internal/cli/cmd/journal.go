package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/panehost/internal/cli/styles"
	"github.com/bnema/panehost/internal/domain/repository"
	"github.com/bnema/panehost/internal/infrastructure/persistence/sqlite"
)

const defaultJournalLimit = 50

var (
	journalLabel   string
	journalLimit   int
	journalSession string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect recorded pane telemetry",
	Long: `Read the telemetry journal written by 'panehost serve' when journal.enabled is set.

Examples:
  panehost journal tail               # last 50 entries, all panes
  panehost journal tail -l docs -n 10 # last 10 entries for pane "docs"
  panehost journal stats              # entry counts per kind, latest session`,
}

var journalTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show the most recent entries",
	Args:  cobra.NoArgs,
	RunE:  runJournalTail,
}

var journalStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count entries per telemetry kind",
	Args:  cobra.NoArgs,
	RunE:  runJournalStats,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTailCmd, journalStatsCmd)

	journalTailCmd.Flags().StringVarP(&journalLabel, "label", "l", "", "only entries for this pane")
	journalTailCmd.Flags().IntVarP(&journalLimit, "lines", "n", defaultJournalLimit, "number of entries to show")
	journalStatsCmd.Flags().StringVarP(&journalSession, "session", "s", "", "server session id (defaults to the latest)")
}

// openJournal opens the configured journal database read side.
func openJournal(ctx context.Context) (repository.TelemetryRepository, func(), error) {
	app := GetApp()
	if app == nil {
		return nil, nil, fmt.Errorf("app not initialized")
	}

	path := app.Config.Journal.Path
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("no journal at %s (enable journal.enabled and run 'panehost serve')", path)
	}

	lazy := sqlite.NewLazyDB(path)
	db, err := lazy.DB(ctx)
	if err != nil {
		_ = lazy.Close()
		return nil, nil, err
	}
	return sqlite.NewTelemetryRepository(db), func() { _ = lazy.Close() }, nil
}

func runJournalTail(_ *cobra.Command, _ []string) error {
	ctx := GetApp().Ctx()
	repo, closeDB, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	entries, err := repo.Recent(ctx, journalLabel, journalLimit)
	if err != nil {
		return err
	}
	fmt.Println(styles.NewJournalRenderer(GetApp().Theme).RenderEntries(entries))
	return nil
}

func runJournalStats(_ *cobra.Command, _ []string) error {
	ctx := GetApp().Ctx()
	repo, closeDB, err := openJournal(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	session := journalSession
	if session == "" {
		latest, err := repo.Recent(ctx, "", 1)
		if err != nil {
			return err
		}
		if len(latest) == 0 {
			fmt.Println(GetApp().Theme.Subtle.Render("  journal is empty"))
			return nil
		}
		session = latest[0].SessionID
	}

	counts, err := repo.CountByKind(ctx, session)
	if err != nil {
		return err
	}
	fmt.Println(GetApp().Theme.Subtle.Render("  session " + session))
	fmt.Println(styles.NewJournalRenderer(GetApp().Theme).RenderKindCounts(counts))
	return nil
}
