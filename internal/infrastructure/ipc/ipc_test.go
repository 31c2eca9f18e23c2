package ipc_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/panehost/internal/app/command"
	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/infrastructure/eventbus"
	"github.com/bnema/panehost/internal/infrastructure/ipc"
	"github.com/bnema/panehost/internal/logging"
)

type dispatchFunc func(ctx context.Context, data []byte) []byte

func (f dispatchFunc) DispatchJSON(ctx context.Context, data []byte) []byte { return f(ctx, data) }

// echoDispatcher answers every request with ok and the request's cmd as result.
var echoDispatcher = dispatchFunc(func(_ context.Context, data []byte) []byte {
	var req command.Request
	if err := json.Unmarshal(data, &req); err != nil {
		out, _ := json.Marshal(command.Response{OK: false, Error: err.Error(), Code: command.CodeBadRequest})
		return out
	}
	if req.Cmd == "fail" {
		out, _ := json.Marshal(command.Response{ID: req.ID, OK: false, Error: "pane not found", Code: command.CodeNotFound})
		return out
	}
	out, _ := json.Marshal(command.Response{ID: req.ID, OK: true, Result: req.Cmd})
	return out
})

func testCtx() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
}

// socketPath stays short; unix socket paths are limited to about 100 bytes.
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "ph")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func startServer(t *testing.T, hub *eventbus.Hub) (*ipc.Server, *ipc.Client) {
	t.Helper()
	path := socketPath(t)
	srv := ipc.NewServer(testCtx(), ipc.Options{SocketPath: path, StreamBuffer: 16}, echoDispatcher, hub)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Close() })
	return srv, ipc.NewClient(path)
}

func TestServer_CallRoundTrip(t *testing.T) {
	_, client := startServer(t, eventbus.NewHub(testCtx()))

	resp, err := client.Call(context.Background(), command.Request{ID: "abc", Cmd: "list"})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, "abc", resp.ID)
	assert.Equal(t, "list", resp.Result)
}

func TestServer_CallFillsID(t *testing.T) {
	_, client := startServer(t, eventbus.NewHub(testCtx()))

	resp, err := client.Call(context.Background(), command.Request{Cmd: "list"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}

func TestServer_CallFailureSurfacesError(t *testing.T) {
	_, client := startServer(t, eventbus.NewHub(testCtx()))

	resp, err := client.Call(context.Background(), command.Request{Cmd: "fail"})
	require.ErrorIs(t, err, ipc.ErrRequestFailed)
	assert.Equal(t, command.CodeNotFound, resp.Code)
	assert.Contains(t, err.Error(), "pane not found")
}

func TestServer_SubscribeAddressedAndBroadcast(t *testing.T) {
	hub := eventbus.NewHub(testCtx())
	_, client := startServer(t, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := client.Subscribe(ctx, "main")
	require.NoError(t, err)

	require.NoError(t, hub.EmitTo("main", entity.EventPaneNavigated, entity.NavigationEvent{Label: "tab-1", URL: "https://example.com/"}))
	_ = hub.EmitTo("other", entity.EventPaneTitleChanged, entity.TitleEvent{Label: "tab-9", Title: "x"})
	require.NoError(t, hub.Emit(entity.EventPaneTitleChanged, entity.TitleEvent{Label: "tab-1", Title: "Example"}))

	first := receive(t, events)
	assert.Equal(t, entity.EventPaneNavigated, first.Event)
	assert.Equal(t, "main", first.Target)
	var nav entity.NavigationEvent
	require.NoError(t, json.Unmarshal(first.Payload, &nav))
	assert.Equal(t, entity.NavigationEvent{Label: "tab-1", URL: "https://example.com/"}, nav)

	second := receive(t, events)
	assert.Equal(t, entity.EventPaneTitleChanged, second.Event)
	var title entity.TitleEvent
	require.NoError(t, json.Unmarshal(second.Payload, &title))
	assert.Equal(t, "Example", title.Title)
}

func TestServer_SubscribeAllSeesEveryTarget(t *testing.T) {
	hub := eventbus.NewHub(testCtx())
	_, client := startServer(t, hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := client.Subscribe(ctx, ipc.SubscribeAll)
	require.NoError(t, err)

	_ = hub.EmitTo("elsewhere", entity.EventPaneTelemetry, entity.TelemetryEvent{"label": "tab-1", "kind": "init"})

	ev := receive(t, events)
	assert.Equal(t, entity.EventPaneTelemetry, ev.Event)
	assert.Equal(t, "elsewhere", ev.Target)
}

func TestServer_UnsubscribesWhenClientLeaves(t *testing.T) {
	hub := eventbus.NewHub(testCtx())
	_, client := startServer(t, hub)
	before := hub.SubscriptionCount()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := client.Subscribe(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, before+1, hub.SubscriptionCount())

	cancel()
	for range events {
	}
	assert.Eventually(t, func() bool { return hub.SubscriptionCount() == before }, 2*time.Second, 10*time.Millisecond)
}

func TestServer_StartRefusesLiveSocket(t *testing.T) {
	srv, _ := startServer(t, eventbus.NewHub(testCtx()))

	second := ipc.NewServer(testCtx(), ipc.Options{SocketPath: srv.SocketPath()}, echoDispatcher, eventbus.NewHub(testCtx()))
	assert.ErrorIs(t, second.Start(), ipc.ErrAlreadyRunning)
}

func TestServer_StartReplacesStaleSocket(t *testing.T) {
	path := socketPath(t)
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	srv := ipc.NewServer(testCtx(), ipc.Options{SocketPath: path}, echoDispatcher, eventbus.NewHub(testCtx()))
	require.NoError(t, srv.Start())
	defer srv.Close()

	_, err := ipc.NewClient(path).Call(context.Background(), command.Request{Cmd: "list"})
	assert.NoError(t, err)
}

func TestServer_CloseEndsStreamsAndRemovesSocket(t *testing.T) {
	hub := eventbus.NewHub(testCtx())
	srv, client := startServer(t, hub)

	events, err := client.Subscribe(context.Background(), "main")
	require.NoError(t, err)

	require.NoError(t, srv.Close())

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream not closed")
	}
	_, statErr := os.Stat(srv.SocketPath())
	assert.True(t, os.IsNotExist(statErr))
	assert.Zero(t, srv.ConnCount())
}

func TestDefaultSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, "/run/user/1000/panehost.sock", ipc.DefaultSocketPath())

	t.Setenv("XDG_RUNTIME_DIR", "")
	assert.Contains(t, ipc.DefaultSocketPath(), "panehost-")
}

func receive(t *testing.T, events <-chan ipc.StreamEvent) ipc.StreamEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "stream closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return ipc.StreamEvent{}
	}
}
