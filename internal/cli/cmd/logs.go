package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/panehost/internal/bootstrap"
	"github.com/bnema/panehost/internal/cli/styles"
)

const (
	defaultLogsLines = 50
	followInterval   = 100 * time.Millisecond
)

var (
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the server log file",
	Long: `Show the file configured by logging.file.

Examples:
  panehost logs           # last 50 lines
  panehost logs -n 200    # last 200 lines
  panehost logs -f        # follow in real-time`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output in real-time")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", defaultLogsLines, "number of lines to show")
}

func runLogs(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	path, err := bootstrap.LogFilePath(app.Config.Logging)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New("file logging is off (set logging.file in config.toml)")
	}

	if err := showLog(os.Stdout, path, logsLines, app.Theme); err != nil {
		return err
	}
	if !logsFollow {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return followLog(ctx, os.Stdout, path, app.Theme)
}

// showLog prints the last n lines of the log at path.
func showLog(w io.Writer, path string, n int, theme *styles.Theme) (retErr error) {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close log file: %w", closeErr)
		}
	}()

	tail := make([]string, 0, n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if n <= 0 {
			continue
		}
		if len(tail) == n {
			tail = tail[1:]
		}
		tail = append(tail, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	for _, line := range tail {
		fmt.Fprintln(w, colorizeLogLine(line, theme))
	}
	return nil
}

// followLog prints lines appended to path until ctx ends.
func followLog(ctx context.Context, w io.Writer, path string, theme *styles.Theme) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, _ = file.Seek(0, io.SeekEnd)

	fmt.Fprintln(w, theme.Subtle.Render("Following logs... (Ctrl+C to stop)"))

	reader := bufio.NewReader(file)
	pending := ""
	for {
		chunk, err := reader.ReadString('\n')
		pending += chunk
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read log file: %w", err)
		}
		if err == nil {
			fmt.Fprintln(w, colorizeLogLine(strings.TrimRight(pending, "\n"), theme))
			pending = ""
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(followInterval):
		}
	}
}

// logEntry is the subset of a JSON log line we render.
type logEntry struct {
	Level   string `json:"level"`
	Time    string `json:"time"`
	Message string `json:"message"`
	Pane    string `json:"pane"`
	Error   string `json:"error"`
}

// colorizeLogLine adds color based on log level.
func colorizeLogLine(line string, theme *styles.Theme) string {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err == nil && entry.Message != "" {
		return formatJSONLogLine(entry, theme)
	}

	switch {
	case containsAny(line, "ERR", "error"):
		return theme.ErrorStyle.Render(line)
	case containsAny(line, "WRN", "warn"):
		return theme.WarningStyle.Render(line)
	case containsAny(line, "DBG", "debug"):
		return theme.Subtle.Render(line)
	default:
		return line
	}
}

func formatJSONLogLine(entry logEntry, theme *styles.Theme) string {
	timeStr := entry.Time
	if t, err := time.Parse(time.RFC3339, entry.Time); err == nil {
		timeStr = t.Format("15:04:05")
	}

	var levelStr string
	switch entry.Level {
	case "error", "fatal", "panic":
		levelStr = theme.ErrorStyle.Render("ERR")
	case "warn":
		levelStr = theme.WarningStyle.Render("WRN")
	case "info":
		levelStr = theme.Highlight.Render("INF")
	case "debug":
		levelStr = theme.Subtle.Render("DBG")
	case "trace":
		levelStr = theme.Subtle.Render("TRC")
	default:
		levelStr = entry.Level
	}

	out := fmt.Sprintf("%s %s %s", theme.Subtle.Render(timeStr), levelStr, entry.Message)
	if entry.Pane != "" {
		out += " " + theme.Subtle.Render("pane="+entry.Pane)
	}
	if entry.Error != "" {
		out += " " + theme.ErrorStyle.Render(entry.Error)
	}
	return out
}

func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
