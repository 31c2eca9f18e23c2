//go:build gtk

// Package gtkhost embeds panes as WebKitGTK webviews in a GTK 4 window. The
// window holds a chrome webview that drives the panes through window.panehost
// and receives relay events as DOM CustomEvents.
package gtkhost

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/diamondburned/gotk4-webkitgtk/pkg/javascriptcore/v6"
	webkit "github.com/diamondburned/gotk4-webkitgtk/pkg/webkit/v6"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/rs/zerolog"

	"github.com/bnema/panehost/internal/infrastructure/eventbus"
	"github.com/bnema/panehost/internal/logging"
)

// controlHandler is the message handler the chrome webview posts commands to.
const controlHandler = "panehostControl"

//go:embed chrome.js
var chromeScript string

// Options configures the GTK window.
type Options struct {
	Label       string
	Title       string
	Width       int
	Height      int
	FrontendURL string
}

// Frontend is the server as seen by the chrome webview.
type Frontend interface {
	DispatchJSON(ctx context.Context, raw []byte) []byte
	Subscribe(window string, handler eventbus.Handler) string
	Unsubscribe(id string) bool
}

// App owns the GTK window, its main loop and the chrome webview.
type App struct {
	opts   Options
	logger zerolog.Logger
	ui     *UIThread
	loop   *glib.MainLoop
	win    *gtk.Window
	chrome *webkit.WebView
	host   *Window

	subscription string
	frontend     Frontend
}

// New initializes GTK and builds the window. It must be called on the thread
// that will call Run.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Label == "" {
		opts.Label = "main"
	}
	if opts.Title == "" {
		opts.Title = "panehost"
	}
	logger := logging.FromContext(ctx).With().Str("component", "gtkhost").Logger()

	if !gtk.InitCheck() {
		return nil, errors.New("gtk: cannot open display")
	}

	win := gtk.NewWindow()
	win.SetTitle(opts.Title)
	win.SetDefaultSize(opts.Width, opts.Height)

	fixed := gtk.NewFixed()
	chrome := webkit.NewWebView()
	chrome.SetSizeRequest(opts.Width, opts.Height)
	fixed.Put(chrome, 0, 0)
	win.SetChild(fixed)

	a := &App{
		opts:   opts,
		logger: logger,
		ui:     newUIThread(logger),
		loop:   glib.NewMainLoop(nil, false),
		win:    win,
		chrome: chrome,
		host:   newWindow(opts.Label, win, fixed, logger),
	}

	win.ConnectCloseRequest(func() bool {
		a.logger.Info().Msg("window close requested")
		a.host.closeAll()
		a.loop.Quit()
		return false
	})
	return a, nil
}

// Window returns the pane registry.
func (a *App) Window() *Window { return a.host }

// UI returns the GTK UI thread.
func (a *App) UI() *UIThread { return a.ui }

// AttachFrontend loads the chrome page and bridges it to frontend: commands
// posted by the page are dispatched off the GTK thread, replies and relay
// events are delivered back as DOM events.
func (a *App) AttachFrontend(ctx context.Context, frontend Frontend) error {
	ucm := a.chrome.UserContentManager()
	if ucm == nil {
		return errors.New("chrome webview has no user content manager")
	}
	handlerName, _ := json.Marshal(controlHandler)
	ucm.AddScript(documentStartScript(strings.Replace(chromeScript, "__HANDLER__", string(handlerName), 1)))

	cmdCtx := context.WithoutCancel(ctx)
	ucm.ConnectScriptMessageReceived(func(value *javascriptcore.Value) {
		if value == nil {
			return
		}
		raw := []byte(value.ToString())
		// Dispatch blocks on the UI thread; never run it inline here.
		go func() {
			reply := frontend.DispatchJSON(cmdCtx, raw)
			a.ui.Post(func() { a.dispatchDOMEvent("panehost:reply", reply) })
		}()
	})
	if !ucm.RegisterScriptMessageHandler(controlHandler, "") {
		return fmt.Errorf("register %s handler", controlHandler)
	}

	a.frontend = frontend
	a.subscription = frontend.Subscribe(a.opts.Label, func(ev eventbus.Event) {
		data, err := json.Marshal(ev)
		if err != nil {
			a.logger.Warn().Err(err).Str("event", ev.Name).Msg("cannot encode event for chrome")
			return
		}
		a.ui.Post(func() { a.dispatchDOMEvent("panehost:event", data) })
	})

	a.chrome.LoadURI(a.opts.FrontendURL)
	return nil
}

func (a *App) dispatchDOMEvent(name string, detail []byte) {
	encodedName, _ := json.Marshal(name)
	script := fmt.Sprintf("window.dispatchEvent(new CustomEvent(%s, { detail: %s }));", encodedName, detail)
	a.chrome.EvaluateJavascript(context.Background(), script, -1, "", "", nil)
}

// Run shows the window and runs the GTK main loop until ctx ends or the
// window is closed.
func (a *App) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		glib.IdleAdd(func() bool {
			a.loop.Quit()
			return false
		})
	})
	defer stop()

	a.win.Present()
	a.logger.Debug().Msg("gtk main loop starting")
	a.loop.Run()
	a.ui.stop()

	if a.frontend != nil {
		a.frontend.Unsubscribe(a.subscription)
	}
	a.win.Destroy()
	a.logger.Debug().Msg("gtk main loop stopped")
	return nil
}
