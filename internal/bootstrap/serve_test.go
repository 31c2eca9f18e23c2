package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/panehost/internal/app/command"
	"github.com/bnema/panehost/internal/config"
	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/infrastructure/ipc"
	"github.com/bnema/panehost/internal/infrastructure/journal"
	"github.com/bnema/panehost/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/panehost/internal/logging"
)

const waitFor = 3 * time.Second

func testCtx() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir, err := os.MkdirTemp("", "ph")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	cfg := config.DefaultConfig()
	cfg.IPC.SocketPath = filepath.Join(dir, "s.sock")
	cfg.Journal.Enabled = true
	cfg.Journal.Path = filepath.Join(dir, "journal.sqlite")
	cfg.Journal.FlushInterval = "10ms"
	require.NoError(t, config.Validate(cfg))
	return cfg
}

type served struct {
	stack  *Stack
	cancel context.CancelFunc
	done   chan error
}

func serve(t *testing.T, cfg *config.Config) *served {
	t.Helper()
	ctx, cancel := context.WithCancel(testCtx())
	ready := make(chan *Stack, 1)
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, cfg, ServeOptions{Ready: func(s *Stack) { ready <- s }})
	}()

	s := &served{cancel: cancel, done: done}
	select {
	case s.stack = <-ready:
	case err := <-done:
		cancel()
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(waitFor):
		cancel()
		t.Fatal("serve never became ready")
	}
	t.Cleanup(func() { s.stop(t) })
	return s
}

func (s *served) stop(t *testing.T) {
	t.Helper()
	s.cancel()
	select {
	case err, ok := <-s.done:
		if ok {
			require.NoError(t, err)
		}
		close(s.done)
	case <-time.After(waitFor):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServe_PaneLifecycleOverControlSocket(t *testing.T) {
	cfg := testConfig(t)
	s := serve(t, cfg)
	client := ipc.NewClient(cfg.IPC.SocketPath)
	ctx := context.Background()

	resp, err := client.Call(ctx, command.Request{
		Cmd: command.CmdCreate, Label: "docs", URL: "https://example.com",
		Width: 800, Height: 600,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)

	_, err = client.Call(ctx, command.Request{Cmd: command.CmdCreate, Label: "docs", URL: "https://example.com"})
	require.ErrorIs(t, err, ipc.ErrRequestFailed)

	resp, err = client.Call(ctx, command.Request{Cmd: command.CmdList})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"labels": []any{"docs"}}, resp.Result)

	hp, ok := s.stack.Platform.(*headlessPlatform)
	require.True(t, ok)
	_, ok = hp.Window().Lookup("docs")
	assert.True(t, ok)

	resp, err = client.Call(ctx, command.Request{Cmd: command.CmdClose, Label: "docs"})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Empty(t, hp.Window().Surfaces())
}

func TestServe_StreamsRelayEvents(t *testing.T) {
	cfg := testConfig(t)
	serve(t, cfg)
	client := ipc.NewClient(cfg.IPC.SocketPath)

	subCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := client.Subscribe(subCtx, cfg.Relay.Target)
	require.NoError(t, err)

	_, err = client.Call(context.Background(), command.Request{
		Cmd: command.CmdCreate, Label: "feed", URL: "https://example.com/feed",
		Width: 400, Height: 300,
	})
	require.NoError(t, err)

	deadline := time.After(waitFor)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "stream closed early")
			if ev.Event == entity.EventPaneNavigated {
				assert.Contains(t, string(ev.Payload), `"feed"`)
				return
			}
		case <-deadline:
			t.Fatal("no pane-navigated event streamed")
		}
	}
}

func TestServe_JournalPersistsTelemetry(t *testing.T) {
	cfg := testConfig(t)
	s := serve(t, cfg)

	_, err := s.stack.Panes.Create(testCtx(), createInput("tab-1", "https://example.com"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return s.stack.Journal.Written() > 0
	}, waitFor, 10*time.Millisecond)

	s.stop(t)

	db := sqlite.NewLazyDB(cfg.Journal.Path)
	defer func() { _ = db.Close() }()
	conn, err := db.DB(testCtx())
	require.NoError(t, err)

	entries, err := sqlite.NewTelemetryRepository(conn).Recent(testCtx(), "tab-1", 50)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, "tab-1", e.Label)
	}
}

func TestServe_ShutdownClosesPanesAndSocket(t *testing.T) {
	cfg := testConfig(t)
	s := serve(t, cfg)

	_, err := s.stack.Panes.Create(testCtx(), createInput("a", "https://a.example"))
	require.NoError(t, err)
	hp := s.stack.Platform.(*headlessPlatform)

	s.stop(t)

	assert.Empty(t, hp.Window().Surfaces())
	_, statErr := os.Stat(cfg.IPC.SocketPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestServe_RejectsSecondInstance(t *testing.T) {
	cfg := testConfig(t)
	serve(t, cfg)

	err := Serve(testCtx(), cfg, ServeOptions{})
	require.ErrorIs(t, err, ipc.ErrAlreadyRunning)
}

type failingAttach struct {
	*headlessPlatform
	frontend Frontend
}

func (p *failingAttach) Attach(_ context.Context, frontend Frontend) error {
	p.frontend = frontend
	return errors.New("chrome unavailable")
}

func TestServe_AttachFailureReleasesStack(t *testing.T) {
	cfg := testConfig(t)
	ctx := testCtx()
	platform := &failingAttach{headlessPlatform: newHeadlessPlatform(ctx, cfg)}

	err := serveOn(ctx, cfg, platform, NewStartupTimer(), ServeOptions{})
	require.EqualError(t, err, "chrome unavailable")

	stack, ok := platform.frontend.(*Stack)
	require.True(t, ok)
	assert.ErrorIs(t, stack.Journal.Close(), journal.ErrClosed)
	_, err = stack.JournalDB.DB(ctx)
	assert.ErrorIs(t, err, sqlite.ErrProviderClosed)

	_, statErr := os.Stat(cfg.IPC.SocketPath)
	assert.True(t, os.IsNotExist(statErr))
}
