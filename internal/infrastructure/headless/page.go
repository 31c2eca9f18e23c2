package headless

import (
	_ "embed"
	"encoding/json"
	"fmt"
	neturl "net/url"
	"strings"
	"time"

	"github.com/grafana/sobek"
	"github.com/rs/zerolog"

	"github.com/bnema/panehost/internal/infrastructure/bridge"
)

//go:embed prelude.js
var preludeSource string

var preludeProgram = sobek.MustCompile("prelude.js", preludeSource, false)

// scriptTimeout interrupts a single script run that does not return.
const scriptTimeout = 5 * time.Second

// minInterval is the smallest repeat interval honored for setInterval.
const minInterval = time.Millisecond

// page is one document loaded in a surface. Every method runs on the UI thread.
type page struct {
	surface *Surface
	url     string
	vm      *sobek.Runtime
	logger  zerolog.Logger
	alive   bool

	timers   map[int64]func()
	rejected map[*sobek.Promise]struct{}
}

func newPage(s *Surface, url string) (*page, error) {
	p := &page{
		surface:  s,
		url:      url,
		vm:       sobek.New(),
		logger:   s.logger,
		alive:    true,
		timers:   make(map[int64]func()),
		rejected: make(map[*sobek.Promise]struct{}),
	}

	p.vm.SetPromiseRejectionTracker(func(promise *sobek.Promise, op sobek.PromiseRejectionOperation) {
		switch op {
		case sobek.PromiseRejectionReject:
			p.rejected[promise] = struct{}{}
		case sobek.PromiseRejectionHandle:
			delete(p.rejected, promise)
		}
	})

	native := p.vm.NewObject()
	bindings := map[string]any{
		"post":          p.post,
		"navigate":      p.navigate,
		"reload":        p.reload,
		"historyGo":     p.historyGo,
		"historyLength": p.historyLength,
		"setTitle":      p.setTitle,
		"selection":     p.selection,
		"log":           p.log,
		"setTimer":      p.setTimer,
		"clearTimer":    p.clearTimer,
	}
	for name, fn := range bindings {
		if err := native.Set(name, fn); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	global := p.vm.GlobalObject()
	if err := global.Set("__native", native); err != nil {
		return nil, err
	}
	if err := global.Set("__initialURL", url); err != nil {
		return nil, err
	}
	if err := global.Set("__urlParts", urlParts(url)); err != nil {
		return nil, err
	}
	if _, err := p.vm.RunProgram(preludeProgram); err != nil {
		return nil, fmt.Errorf("install page prelude: %w", err)
	}
	for _, name := range []string{"__native", "__initialURL", "__urlParts"} {
		_ = global.Delete(name)
	}

	if _, err := p.run("bridge.js", bridge.ShimScript(bridge.HandlerName)); err != nil {
		return nil, fmt.Errorf("install bridge: %w", err)
	}
	return p, nil
}

// run executes script and flushes unhandled rejections. A script that runs
// longer than scriptTimeout is interrupted.
func (p *page) run(name, script string) (sobek.Value, error) {
	if !p.alive {
		return nil, errPageGone
	}
	timer := time.AfterFunc(scriptTimeout, func() {
		p.vm.Interrupt(fmt.Sprintf("%s: script timeout after %s", name, scriptTimeout))
	})
	v, err := p.vm.RunScript(name, script)
	timer.Stop()
	p.vm.ClearInterrupt()
	p.flushRejections()
	return v, err
}

// call invokes a prelude hook by name.
func (p *page) call(name string, args ...any) {
	if !p.alive {
		return
	}
	fn, ok := sobek.AssertFunction(p.vm.Get(name))
	if !ok {
		return
	}
	values := make([]sobek.Value, len(args))
	for i, a := range args {
		values[i] = p.vm.ToValue(a)
	}
	if _, err := fn(sobek.Undefined(), values...); err != nil {
		p.logger.Debug().Err(err).Str("hook", name).Msg("page hook failed")
	}
	p.flushRejections()
}

func (p *page) setReadyState(state string) {
	p.call("__panehostSetReadyState", state)
}

func (p *page) dispatch(on, eventType string) {
	p.call("__panehostDispatch", on, eventType)
}

func (p *page) flushRejections() {
	if len(p.rejected) == 0 || !p.alive {
		return
	}
	pending := p.rejected
	p.rejected = make(map[*sobek.Promise]struct{})
	for promise := range pending {
		init := p.vm.NewObject()
		_ = init.Set("reason", promise.Result())
		_ = init.Set("promise", promise)
		p.call("__panehostDispatch", "window", "unhandledrejection", init)
	}
}

// teardown stops timers and detaches the page from its surface.
func (p *page) teardown() {
	if !p.alive {
		return
	}
	p.alive = false
	for id, stop := range p.timers {
		stop()
		delete(p.timers, id)
	}
	p.vm.Interrupt("page unloaded")
}

func (p *page) post(message string) {
	msg, err := bridge.Decode([]byte(message))
	if err != nil {
		p.logger.Debug().Err(err).Msg("dropping malformed page message")
		return
	}
	if cb := p.surface.callbacks.OnScriptMessage; cb != nil {
		cb(msg)
	}
}

func (p *page) navigate(raw string) {
	target, err := resolveURL(p.url, raw)
	if err != nil {
		panic(p.vm.NewTypeError("invalid URL %q: %v", raw, err))
	}
	p.surface.scheduleLoad(target, historyPush)
}

func (p *page) reload() {
	p.surface.scheduleLoad(p.url, historyKeep)
}

func (p *page) historyGo(delta int) {
	p.surface.scheduleHistory(delta)
}

func (p *page) historyLength() int {
	return p.surface.historyLength()
}

func (p *page) setTitle(title string) {
	p.surface.titleChanged(title)
}

func (p *page) selection() string {
	return p.surface.selectionText()
}

func (p *page) log(level, message string) {
	var ev *zerolog.Event
	switch level {
	case "error":
		ev = p.logger.Warn()
	default:
		ev = p.logger.Debug()
	}
	ev.Str("console", level).Str("url", p.url).Msg(message)
}

func (p *page) setTimer(id int64, ms float64, repeat bool) {
	d := time.Duration(ms * float64(time.Millisecond))
	fire := func() {
		p.surface.window.sched.Post(func() {
			if !p.alive {
				return
			}
			if !repeat {
				delete(p.timers, id)
			}
			p.call("__panehostFireTimer", id)
		})
	}

	if !repeat {
		t := time.AfterFunc(d, fire)
		p.timers[id] = func() { t.Stop() }
		return
	}

	if d < minInterval {
		d = minInterval
	}
	ticker := time.NewTicker(d)
	stop := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fire()
			case <-stop:
				return
			}
		}
	}()
	p.timers[id] = func() { close(stop) }
}

func (p *page) clearTimer(id int64) {
	if stop, ok := p.timers[id]; ok {
		stop()
		delete(p.timers, id)
	}
}

func resolveURL(base, ref string) (string, error) {
	b, err := neturl.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := neturl.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

func urlParts(raw string) map[string]any {
	u, err := neturl.Parse(raw)
	if err != nil {
		return map[string]any{}
	}
	parts := map[string]any{
		"protocol": u.Scheme + ":",
		"host":     u.Host,
		"hostname": u.Hostname(),
		"port":     u.Port(),
		"pathname": u.EscapedPath(),
		"hash":     "",
		"search":   "",
		"origin":   "null",
	}
	if u.Opaque != "" {
		parts["pathname"] = u.Opaque
	}
	if u.RawQuery != "" {
		parts["search"] = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		parts["hash"] = "#" + u.EscapedFragment()
	}
	if u.Host != "" {
		parts["origin"] = u.Scheme + "://" + u.Host
	}
	return parts
}

func jsQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
