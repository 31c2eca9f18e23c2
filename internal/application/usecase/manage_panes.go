package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/panehost/internal/application/port"
	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/domain/geometry"
	urlutil "github.com/bnema/panehost/internal/domain/url"
	"github.com/bnema/panehost/internal/logging"
)

// closeAllConcurrency bounds how many close requests queue on the UI thread at once.
const closeAllConcurrency = 4

// ScriptMessageHandler receives bridge messages posted by the page of a pane.
type ScriptMessageHandler func(ctx context.Context, label string, msg port.ScriptMessage)

// ManagePanesUseCase drives the lifecycle of embedded panes. It owns no pane
// state: every operation resolves the label through the host window on the UI
// thread, so a handle is never reused across calls.
type ManagePanesUseCase struct {
	host        port.HostWindow
	ui          port.UIThread
	transformer geometry.Transformer
	scripts     port.ScriptBuilder
	relay       *RelayEventsUseCase

	mu        sync.RWMutex
	onMessage ScriptMessageHandler
}

// NewManagePanesUseCase creates the lifecycle manager.
// Page messages go to relay.HandleScriptMessage until SetScriptMessageHandler
// installs another handler.
func NewManagePanesUseCase(
	host port.HostWindow,
	ui port.UIThread,
	transformer geometry.Transformer,
	scripts port.ScriptBuilder,
	relay *RelayEventsUseCase,
) *ManagePanesUseCase {
	return &ManagePanesUseCase{
		host:        host,
		ui:          ui,
		transformer: transformer,
		scripts:     scripts,
		relay:       relay,
		onMessage:   relay.HandleScriptMessage,
	}
}

// SetScriptMessageHandler replaces the handler given to panes created afterwards.
func (uc *ManagePanesUseCase) SetScriptMessageHandler(h ScriptMessageHandler) {
	if h == nil {
		h = uc.relay.HandleScriptMessage
	}
	uc.mu.Lock()
	uc.onMessage = h
	uc.mu.Unlock()
}

// CreatePaneInput contains parameters for creating a pane.
type CreatePaneInput struct {
	Label  string
	URL    string
	Bounds entity.Rect // caller units
}

// CreatePaneOutput describes the attached surface.
type CreatePaneOutput struct {
	Label  string      `json:"label"`
	URL    string      `json:"url"`
	Bounds entity.Rect `json:"bounds"` // logical units
}

// Create attaches a new pane to the host window. A live pane with the same
// label is left untouched and ErrPaneExists is returned.
func (uc *ManagePanesUseCase) Create(ctx context.Context, in CreatePaneInput) (*CreatePaneOutput, error) {
	log := logging.FromContext(ctx)

	if err := entity.ValidateLabel(in.Label); err != nil {
		return nil, err
	}
	target, err := urlutil.ParsePaneURL(in.URL)
	if err != nil {
		return nil, fmt.Errorf("create pane %q: %w", in.Label, err)
	}
	if err := in.Bounds.Validate(); err != nil {
		return nil, fmt.Errorf("create pane %q: %w", in.Label, err)
	}
	script, err := uc.scripts.Build(in.Label)
	if err != nil {
		return nil, fmt.Errorf("create pane %q: build init script: %w", in.Label, err)
	}

	spec := port.SurfaceSpec{
		Label:      in.Label,
		URL:        target.String(),
		InitScript: script,
		Callbacks:  uc.callbacksFor(ctx, in.Label),
	}

	var out CreatePaneOutput
	err = uc.ui.Invoke(ctx, func() error {
		if _, exists := uc.host.Surface(in.Label); exists {
			return fmt.Errorf("create pane %q: %w", in.Label, entity.ErrPaneExists)
		}
		scale, err := uc.host.ScaleFactor()
		if err != nil {
			return fmt.Errorf("create pane %q: %w: %w", in.Label, entity.ErrScaleFactorUnavailable, err)
		}
		bounds, err := uc.transformer.Transform(in.Bounds, scale)
		if err != nil {
			return fmt.Errorf("create pane %q: %w", in.Label, err)
		}
		spec.Bounds = bounds
		if _, err := uc.host.AttachChild(spec); err != nil {
			return fmt.Errorf("create pane %q: %w: %w", in.Label, entity.ErrEmbedding, err)
		}
		out = CreatePaneOutput{Label: in.Label, URL: spec.URL, Bounds: bounds}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("pane", in.Label).
		Str("url", out.URL).
		Stringer("bounds", out.Bounds).
		Msg("pane created")
	return &out, nil
}

// callbacksFor builds native callbacks bound to an immutable snapshot of the
// relay and label. The request context is detached so callbacks keep logging
// after the create call returns.
func (uc *ManagePanesUseCase) callbacksFor(ctx context.Context, label string) port.SurfaceCallbacks {
	relay := uc.relay
	uc.mu.RLock()
	onMessage := uc.onMessage
	uc.mu.RUnlock()
	cbCtx := logging.WithPaneLabel(context.WithoutCancel(ctx), label)

	return port.SurfaceCallbacks{
		OnNavigationStarted: func(url string) {
			relay.NavigationStarted(cbCtx, label, url)
		},
		OnPageLoad: func(url string) {
			relay.Navigated(cbCtx, label, url)
		},
		OnTitleChanged: func(title string) {
			relay.TitleChanged(cbCtx, label, title)
		},
		OnScriptMessage: func(msg port.ScriptMessage) {
			onMessage(cbCtx, label, msg)
		},
	}
}

// Show makes a pane visible. A missing label is logged and ignored.
func (uc *ManagePanesUseCase) Show(ctx context.Context, label string) error {
	return uc.withOptionalSurface(ctx, "show", label, func(s port.Surface) error {
		return s.Show()
	})
}

// Hide hides a pane, keeping its native state. A missing label is logged and ignored.
func (uc *ManagePanesUseCase) Hide(ctx context.Context, label string) error {
	return uc.withOptionalSurface(ctx, "hide", label, func(s port.Surface) error {
		return s.Hide()
	})
}

// Close destroys a pane. Closing a missing label is a silent no-op.
func (uc *ManagePanesUseCase) Close(ctx context.Context, label string) error {
	return uc.ui.Invoke(ctx, func() error {
		s, ok := uc.host.Surface(label)
		if !ok {
			return nil
		}
		if err := s.Close(); err != nil {
			return fmt.Errorf("close pane %q: %w: %w", label, entity.ErrEmbedding, err)
		}
		return nil
	})
}

// Reposition moves then resizes a pane. A missing label is logged and ignored.
func (uc *ManagePanesUseCase) Reposition(ctx context.Context, label string, rect entity.Rect) error {
	if err := rect.Validate(); err != nil {
		return fmt.Errorf("reposition pane %q: %w", label, err)
	}
	return uc.withOptionalSurface(ctx, "reposition", label, func(s port.Surface) error {
		scale, err := uc.host.ScaleFactor()
		if err != nil {
			return fmt.Errorf("%w: %w", entity.ErrScaleFactorUnavailable, err)
		}
		bounds, err := uc.transformer.Transform(rect, scale)
		if err != nil {
			return err
		}
		// Position first: the platform's own resize handling would otherwise
		// lay the pane out at its old origin for one frame.
		if err := s.SetPosition(bounds.X, bounds.Y); err != nil {
			return fmt.Errorf("%w: %w", entity.ErrEmbedding, err)
		}
		if err := s.SetSize(bounds.Width, bounds.Height); err != nil {
			return fmt.Errorf("%w: %w", entity.ErrEmbedding, err)
		}
		return nil
	})
}

// Navigate loads url in the pane by assigning location.href from page script.
// Success means the script was dispatched.
func (uc *ManagePanesUseCase) Navigate(ctx context.Context, label, rawURL string) error {
	target, err := urlutil.ParsePaneURL(rawURL)
	if err != nil {
		return fmt.Errorf("navigate pane %q: %w", label, err)
	}
	encoded, err := json.Marshal(target.String())
	if err != nil {
		return fmt.Errorf("navigate pane %q: %w", label, err)
	}
	return uc.evaluate(ctx, "navigate", label, "window.location.href = "+string(encoded)+";")
}

// Reload reloads the pane's current document.
func (uc *ManagePanesUseCase) Reload(ctx context.Context, label string) error {
	return uc.evaluate(ctx, "reload", label, "window.location.reload();")
}

// Back steps the pane's history back.
func (uc *ManagePanesUseCase) Back(ctx context.Context, label string) error {
	return uc.evaluate(ctx, "back", label, "window.history.back();")
}

// Forward steps the pane's history forward.
func (uc *ManagePanesUseCase) Forward(ctx context.Context, label string) error {
	return uc.evaluate(ctx, "forward", label, "window.history.forward();")
}

// NavigationState reports the approximate history state of a live pane.
func (uc *ManagePanesUseCase) NavigationState(ctx context.Context, label string) (entity.NavigationState, error) {
	err := uc.ui.Invoke(ctx, func() error {
		if _, ok := uc.host.Surface(label); !ok {
			return notFound("navigation state", label)
		}
		return nil
	})
	if err != nil {
		return entity.NavigationState{}, err
	}
	return entity.ApproximateNavigationState(), nil
}

// List returns the labels of live panes in sorted order.
func (uc *ManagePanesUseCase) List(ctx context.Context) ([]string, error) {
	var labels []string
	err := uc.ui.Invoke(ctx, func() error {
		labels = slices.Clone(uc.host.Surfaces())
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(labels)
	return labels, nil
}

// CloseAll closes every live pane and joins the failures.
func (uc *ManagePanesUseCase) CloseAll(ctx context.Context) error {
	labels, err := uc.List(ctx)
	if err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(closeAllConcurrency)
	for _, label := range labels {
		g.Go(func() error {
			if err := uc.Close(gctx, label); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	logging.FromContext(ctx).Debug().Int("count", len(labels)).Int("failed", len(errs)).Msg("closed all panes")
	return errors.Join(errs...)
}

func (uc *ManagePanesUseCase) withOptionalSurface(
	ctx context.Context,
	op, label string,
	fn func(port.Surface) error,
) error {
	missing := false
	err := uc.ui.Invoke(ctx, func() error {
		s, ok := uc.host.Surface(label)
		if !ok {
			missing = true
			return nil
		}
		if err := fn(s); err != nil {
			return fmt.Errorf("%s pane %q: %w", op, label, err)
		}
		return nil
	})
	if err == nil && missing {
		logging.FromContext(ctx).Debug().Str("op", op).Str("pane", label).Msg("pane not found, ignoring")
	}
	return err
}

func (uc *ManagePanesUseCase) evaluate(ctx context.Context, op, label, script string) error {
	return uc.ui.Invoke(ctx, func() error {
		s, ok := uc.host.Surface(label)
		if !ok {
			return notFound(op, label)
		}
		if err := s.Evaluate(script); err != nil {
			return fmt.Errorf("%s pane %q: %w: %w", op, label, entity.ErrEmbedding, err)
		}
		return nil
	})
}

func notFound(op, label string) error {
	return fmt.Errorf("%s pane %q: %w", op, label, entity.ErrPaneNotFound)
}
