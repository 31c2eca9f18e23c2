package headless

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/panehost/internal/application/usecase"
	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/domain/geometry"
	"github.com/bnema/panehost/internal/infrastructure/eventbus"
	"github.com/bnema/panehost/internal/infrastructure/instrument"
	"github.com/bnema/panehost/internal/ui/mainloop"
)

const waitFor = 2 * time.Second

type recorder struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (r *recorder) add(ev eventbus.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) all() []eventbus.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]eventbus.Event(nil), r.events...)
}

func (r *recorder) telemetry(kind entity.TelemetryKind) []entity.TelemetryEvent {
	var out []entity.TelemetryEvent
	for _, ev := range r.all() {
		if ev.Name != entity.EventPaneTelemetry {
			continue
		}
		if te, ok := ev.Payload.(entity.TelemetryEvent); ok && te.Kind() == kind {
			out = append(out, te)
		}
	}
	return out
}

// indexOf returns the position of the first event matching name and payload.
func (r *recorder) indexOf(name string, payload any) int {
	for i, ev := range r.all() {
		if ev.Name == name && ev.Payload == payload {
			return i
		}
	}
	return -1
}

type harness struct {
	loop   *mainloop.Loop
	window *Window
	events *recorder
	relay  *usecase.RelayEventsUseCase
	panes  *usecase.ManagePanesUseCase
}

type harnessOptions struct {
	policy    geometry.Policy
	scale     float64
	heartbeat time.Duration
	setup     string
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	if opts.policy == "" {
		opts.policy = geometry.PolicyLogical
	}
	if opts.heartbeat == 0 {
		opts.heartbeat = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	loop := mainloop.New(ctx)
	go func() { _ = loop.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})

	window := NewWindow(ctx, loop, Options{ScaleFactor: opts.scale, Width: 1280, Height: 800, PageSetup: opts.setup})
	hub := eventbus.NewHub(ctx)
	events := &recorder{}
	hub.Subscribe("main", events.add)

	builder, err := instrument.NewBuilder(instrument.Options{
		Mode:              instrument.ModeTelemetry,
		Target:            "main",
		HeartbeatInterval: opts.heartbeat,
	})
	require.NoError(t, err)

	relay := usecase.NewRelayEventsUseCase(hub, "main")
	return &harness{
		loop:   loop,
		window: window,
		events: events,
		relay:  relay,
		panes:  usecase.NewManagePanesUseCase(window, loop, geometry.NewTransformer(opts.policy), builder, relay),
	}
}

func (h *harness) create(t *testing.T, label, url string, rect entity.Rect) {
	t.Helper()
	_, err := h.panes.Create(context.Background(), usecase.CreatePaneInput{Label: label, URL: url, Bounds: rect})
	require.NoError(t, err)
}

func (h *harness) waitNavigated(t *testing.T, label, url string) {
	t.Helper()
	want := entity.NavigationEvent{Label: label, URL: url}
	require.Eventually(t, func() bool {
		return h.events.indexOf(entity.EventPaneNavigated, want) >= 0
	}, waitFor, 5*time.Millisecond, "no pane-navigated for %s %s", label, url)
}

func (h *harness) onUI(t *testing.T, fn func()) {
	t.Helper()
	require.NoError(t, h.loop.Invoke(context.Background(), func() error {
		fn()
		return nil
	}))
}

func TestHeadless_CreateAttachesAndNavigates(t *testing.T) {
	h := newHarness(t, harnessOptions{scale: 2})
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))

	s, ok := h.window.Lookup("tab-1")
	require.True(t, ok)
	assert.Equal(t, entity.NewRect(0, 0, 800, 600), s.Snapshot().Bounds)

	h.waitNavigated(t, "tab-1", "https://example.com/")

	nav := entity.NavigationEvent{Label: "tab-1", URL: "https://example.com/"}
	started := h.events.indexOf(entity.EventPaneNavigationStarted, nav)
	loaded := h.events.indexOf(entity.EventPaneNavigated, nav)
	require.GreaterOrEqual(t, started, 0)
	assert.Less(t, started, loaded)

	require.Eventually(t, func() bool {
		return h.events.indexOf(entity.EventPaneTitleChanged, entity.TitleEvent{Label: "tab-1", Title: "example.com"}) >= 0
	}, waitFor, 5*time.Millisecond)
	assert.Equal(t, "https://example.com/", s.Snapshot().URL)
}

func TestHeadless_PhysicalPolicyScalesBounds(t *testing.T) {
	h := newHarness(t, harnessOptions{policy: geometry.PolicyPhysical, scale: 2})
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))

	s, ok := h.window.Lookup("tab-1")
	require.True(t, ok)
	assert.Equal(t, entity.NewRect(0, 0, 400, 300), s.Snapshot().Bounds)
}

func TestHeadless_DuplicateCreateRejected(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))

	_, err := h.panes.Create(context.Background(), usecase.CreatePaneInput{
		Label:  "tab-1",
		URL:    "https://example.org",
		Bounds: entity.NewRect(10, 10, 100, 100),
	})
	require.ErrorIs(t, err, entity.ErrPaneExists)

	h.waitNavigated(t, "tab-1", "https://example.com/")
	s, _ := h.window.Lookup("tab-1")
	assert.Equal(t, "https://example.com/", s.Snapshot().URL)
	assert.Equal(t, entity.NewRect(0, 0, 800, 600), s.Snapshot().Bounds)
	assert.Equal(t, []string{"tab-1"}, h.window.Surfaces())
}

func TestHeadless_ConcurrentDuplicateCreate(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = h.panes.Create(context.Background(), usecase.CreatePaneInput{
				Label:  "tab-1",
				URL:    "https://example.com",
				Bounds: entity.NewRect(0, 0, 10, 10),
			})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, entity.ErrPaneExists)
	}
	assert.Equal(t, 1, succeeded)
}

func TestHeadless_CreateThenCloseIsIdempotent(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))

	require.NoError(t, h.panes.Close(ctx, "tab-1"))
	assert.NotContains(t, h.window.Surfaces(), "tab-1")
	require.NoError(t, h.panes.Close(ctx, "tab-1"))

	labels, err := h.panes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, labels)

	// The label can be reused once closed.
	h.create(t, "tab-1", "https://example.org", entity.NewRect(0, 0, 800, 600))
	h.waitNavigated(t, "tab-1", "https://example.org/")
}

func TestHeadless_ScriptDrivenNavigationAndHistory(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))
	h.waitNavigated(t, "tab-1", "https://example.com/")

	require.NoError(t, h.panes.Navigate(ctx, "tab-1", "https://example.org/docs"))
	h.waitNavigated(t, "tab-1", "https://example.org/docs")

	require.NoError(t, h.panes.Back(ctx, "tab-1"))
	require.Eventually(t, func() bool {
		s, _ := h.window.Lookup("tab-1")
		return s.Snapshot().URL == "https://example.com/"
	}, waitFor, 5*time.Millisecond)

	require.NoError(t, h.panes.Forward(ctx, "tab-1"))
	require.Eventually(t, func() bool {
		s, _ := h.window.Lookup("tab-1")
		return s.Snapshot().URL == "https://example.org/docs"
	}, waitFor, 5*time.Millisecond)

	state, err := h.panes.NavigationState(ctx, "tab-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ApproximateNavigationState(), state)
}

func TestHeadless_ReloadRestartsNavigation(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))
	h.waitNavigated(t, "tab-1", "https://example.com/")

	count := func() int {
		n := 0
		for _, ev := range h.events.all() {
			if ev.Name == entity.EventPaneNavigated {
				n++
			}
		}
		return n
	}
	before := count()

	require.NoError(t, h.panes.Reload(context.Background(), "tab-1"))
	require.Eventually(t, func() bool { return count() == before+1 }, waitFor, 5*time.Millisecond)
}

func TestHeadless_MissingLabelHandling(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()

	err := h.panes.Navigate(ctx, "missing-1", "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-1")
	assert.NoError(t, h.panes.Hide(ctx, "missing-1"))
}

func TestHeadless_ShowHideReposition(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))
	s, _ := h.window.Lookup("tab-1")

	require.NoError(t, h.panes.Hide(ctx, "tab-1"))
	assert.Equal(t, entity.VisibilityHidden, s.Snapshot().Visibility)
	require.NoError(t, h.panes.Show(ctx, "tab-1"))
	assert.Equal(t, entity.VisibilityShown, s.Snapshot().Visibility)

	rect := entity.NewRect(40, 80, 640, 480)
	require.NoError(t, h.panes.Reposition(ctx, "tab-1", rect))
	require.NoError(t, h.panes.Reposition(ctx, "tab-1", rect))
	assert.Equal(t, rect, s.Snapshot().Bounds)
}

func TestHeadless_ScaleFactorFailureCreatesNothing(t *testing.T) {
	h := newHarness(t, harnessOptions{policy: geometry.PolicyPhysical})
	h.window.FailScaleFactor(errors.New("display disconnected"))

	_, err := h.panes.Create(context.Background(), usecase.CreatePaneInput{
		Label:  "tab-1",
		URL:    "https://example.com",
		Bounds: entity.NewRect(0, 0, 800, 600),
	})
	require.ErrorIs(t, err, entity.ErrScaleFactorUnavailable)
	assert.Empty(t, h.window.Surfaces())
}

func TestHeadless_CloseAll(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	for _, label := range []string{"tab-1", "tab-2", "tab-3"} {
		h.create(t, label, "https://example.com", entity.NewRect(0, 0, 100, 100))
	}

	require.NoError(t, h.panes.CloseAll(context.Background()))
	assert.Empty(t, h.window.Surfaces())
}

func TestHeadless_TelemetryInitAndPageInfo(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))
	h.waitNavigated(t, "tab-1", "https://example.com/")

	inits := h.events.telemetry(entity.TelemetryInit)
	require.NotEmpty(t, inits)
	assert.Equal(t, "tab-1", inits[0].Label())
	assert.Equal(t, "https://example.com/", inits[0]["url"])

	// Once at install, once at DOMContentLoaded.
	infos := h.events.telemetry(entity.TelemetryPageInfo)
	assert.Len(t, infos, 2)
}

func TestHeadless_SelectionIsDeduplicated(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))
	h.waitNavigated(t, "tab-1", "https://example.com/")
	s, _ := h.window.Lookup("tab-1")

	h.onUI(t, func() { s.SelectText("  hello  ") })
	h.onUI(t, func() { s.SelectText("hello") })
	require.Len(t, h.events.telemetry(entity.TelemetrySelection), 1)
	assert.Equal(t, "hello", h.events.telemetry(entity.TelemetrySelection)[0]["text"])

	h.onUI(t, func() { s.SelectText("world") })
	assert.Len(t, h.events.telemetry(entity.TelemetrySelection), 2)
}

func TestHeadless_SelectionIsCapped(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))
	h.waitNavigated(t, "tab-1", "https://example.com/")
	s, _ := h.window.Lookup("tab-1")

	long := make([]byte, 800)
	for i := range long {
		long[i] = 'a'
	}
	h.onUI(t, func() { s.SelectText(string(long)) })

	sel := h.events.telemetry(entity.TelemetrySelection)
	require.Len(t, sel, 1)
	assert.Len(t, sel[0]["text"], instrument.MaxSelectionLength)
}

func TestHeadless_ConsoleErrorsAndRejections(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))
	h.waitNavigated(t, "tab-1", "https://example.com/")
	s, _ := h.window.Lookup("tab-1")

	require.NoError(t, s.Evaluate(`console.warn("careful", {a: 1});`))
	require.NoError(t, s.Evaluate(`setTimeout(function () { throw new Error("kaboom"); }, 0);`))
	require.NoError(t, s.Evaluate(`Promise.reject(new Error("nope"));`))
	h.onUI(t, func() {})

	require.Eventually(t, func() bool {
		return len(h.events.telemetry(entity.TelemetryError)) == 1 &&
			len(h.events.telemetry(entity.TelemetryUnhandledRejection)) == 1
	}, waitFor, 5*time.Millisecond)

	consoles := h.events.telemetry(entity.TelemetryConsole)
	require.Len(t, consoles, 1)
	assert.Equal(t, "warn", consoles[0]["level"])
	assert.Equal(t, `careful {"a":1}`, consoles[0]["message"])

	assert.Equal(t, "kaboom", h.events.telemetry(entity.TelemetryError)[0]["message"])
	assert.Equal(t, "nope", h.events.telemetry(entity.TelemetryUnhandledRejection)[0]["reason"])
	_ = ctx
}

const fakeFetch = `
window.fetch = function (url, init) {
  var body = '{"items":[1,2,3]}';
  var response = {
    status: 201,
    url: url,
    headers: { get: function (name) { return name === "content-type" ? "application/json" : null; } },
    clone: function () { return { text: function () { return Promise.resolve(body); } }; },
    text: function () { return Promise.resolve(body); }
  };
  if (String(url).indexOf("fail") >= 0) {
    return Promise.reject(new TypeError("network down"));
  }
  return Promise.resolve(response);
};
`

func TestHeadless_FetchInterceptionPreservesResponse(t *testing.T) {
	h := newHarness(t, harnessOptions{setup: fakeFetch})
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))
	h.waitNavigated(t, "tab-1", "https://example.com/")
	s, _ := h.window.Lookup("tab-1")

	require.NoError(t, s.Evaluate(`
fetch("https://api.example.com/items", { method: "post" }).then(function (res) {
  return res.text().then(function (body) { console.log("got", res.status, body); });
});
fetch("https://api.example.com/fail").catch(function (err) { console.log("caught", err.message); });
`))

	require.Eventually(t, func() bool {
		return len(h.events.telemetry(entity.TelemetryFetch)) == 1 &&
			len(h.events.telemetry(entity.TelemetryFetchError)) == 1 &&
			len(h.events.telemetry(entity.TelemetryConsole)) == 2
	}, waitFor, 5*time.Millisecond)

	fetch := h.events.telemetry(entity.TelemetryFetch)[0]
	assert.Equal(t, "POST", fetch["method"])
	assert.Equal(t, "https://api.example.com/items", fetch["url"])
	assert.EqualValues(t, 201, fetch["status"])
	assert.Equal(t, `{"items":[1,2,3]}`, fetch["preview"])

	failed := h.events.telemetry(entity.TelemetryFetchError)[0]
	assert.Equal(t, "network down", failed["error"])

	var messages []any
	for _, c := range h.events.telemetry(entity.TelemetryConsole) {
		messages = append(messages, c["message"])
	}
	assert.ElementsMatch(t, []any{`got 201 {"items":[1,2,3]}`, "caught network down"}, messages)
	assert.Empty(t, h.events.telemetry(entity.TelemetryUnhandledRejection))
}

func TestHeadless_HeartbeatAndPageSpoofing(t *testing.T) {
	h := newHarness(t, harnessOptions{heartbeat: 10 * time.Millisecond})
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))
	h.waitNavigated(t, "tab-1", "https://example.com/")
	s, _ := h.window.Lookup("tab-1")

	require.Eventually(t, func() bool {
		return len(h.events.telemetry(entity.TelemetryHeartbeat)) >= 2
	}, waitFor, 5*time.Millisecond)
	hb := h.events.telemetry(entity.TelemetryHeartbeat)[0]
	assert.Equal(t, "https://example.com/", hb["url"])

	before := len(h.events.telemetry(entity.TelemetryInit))
	require.NoError(t, s.Evaluate(`window.__panehost.emitTo("sidebar", "pane-telemetry", {kind: "init", label: "tab-9"});`))
	require.NoError(t, s.Evaluate(`window.__panehost.emit("pane-navigated", {label: "tab-9"});`))
	h.onUI(t, func() {})

	inits := h.events.telemetry(entity.TelemetryInit)
	require.Len(t, inits, before+1)
	assert.Equal(t, "tab-1", inits[len(inits)-1].Label())
	assert.Equal(t, uint64(1), h.relay.Dropped())
}

func TestHeadless_ClosedPaneStopsTimers(t *testing.T) {
	h := newHarness(t, harnessOptions{heartbeat: 5 * time.Millisecond})
	h.create(t, "tab-1", "https://example.com", entity.NewRect(0, 0, 800, 600))
	require.Eventually(t, func() bool {
		return len(h.events.telemetry(entity.TelemetryHeartbeat)) >= 1
	}, waitFor, 5*time.Millisecond)

	require.NoError(t, h.panes.Close(context.Background(), "tab-1"))
	h.onUI(t, func() {})
	settled := len(h.events.telemetry(entity.TelemetryHeartbeat))
	time.Sleep(50 * time.Millisecond)
	h.onUI(t, func() {})
	assert.Equal(t, settled, len(h.events.telemetry(entity.TelemetryHeartbeat)))
}
