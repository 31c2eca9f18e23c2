// Package command decodes JSON command envelopes and runs them against the
// pane lifecycle manager. The chrome frontend bridge and the control socket
// share this surface.
package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/panehost/internal/application/usecase"
	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/logging"
)

// Command names.
const (
	CmdCreate          = "create"
	CmdShow            = "show"
	CmdHide            = "hide"
	CmdClose           = "close"
	CmdReposition      = "reposition"
	CmdNavigate        = "navigate"
	CmdReload          = "reload"
	CmdBack            = "back"
	CmdForward         = "forward"
	CmdNavigationState = "navigation_state"
	CmdList            = "list"
)

// Error codes carried in Response.Code.
const (
	CodeBadRequest     = "bad_request"
	CodeUnknownCommand = "unknown_command"
	CodeNotFound       = "not_found"
	CodeExists         = "exists"
	CodeInvalidLabel   = "invalid_label"
	CodeInvalidURL     = "invalid_url"
	CodeScaleFactor    = "scale_factor"
	CodeEmbedding      = "embedding"
	CodeCanceled       = "canceled"
	CodeInternal       = "internal"
)

// PaneManager is the lifecycle surface the dispatcher drives.
type PaneManager interface {
	Create(ctx context.Context, in usecase.CreatePaneInput) (*usecase.CreatePaneOutput, error)
	Show(ctx context.Context, label string) error
	Hide(ctx context.Context, label string) error
	Close(ctx context.Context, label string) error
	Reposition(ctx context.Context, label string, rect entity.Rect) error
	Navigate(ctx context.Context, label, rawURL string) error
	Reload(ctx context.Context, label string) error
	Back(ctx context.Context, label string) error
	Forward(ctx context.Context, label string) error
	NavigationState(ctx context.Context, label string) (entity.NavigationState, error)
	List(ctx context.Context) ([]string, error)
}

// Request is one command envelope.
type Request struct {
	ID     string  `json:"id,omitempty"`
	Cmd    string  `json:"cmd"`
	Label  string  `json:"label,omitempty"`
	URL    string  `json:"url,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Rect returns the request rectangle.
func (r Request) Rect() entity.Rect {
	return entity.NewRect(r.X, r.Y, r.Width, r.Height)
}

// Response answers a Request with the same ID.
type Response struct {
	ID     string `json:"id,omitempty"`
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Code   string `json:"code,omitempty"`
}

// ListResult is the result of list.
type ListResult struct {
	Labels []string `json:"labels"`
}

// Dispatcher runs requests against a PaneManager.
type Dispatcher struct {
	panes PaneManager
}

// NewDispatcher creates a dispatcher for panes.
func NewDispatcher(panes PaneManager) *Dispatcher {
	return &Dispatcher{panes: panes}
}

// Dispatch runs req. Failures are reported in the response, never as a Go error.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	log := logging.FromContext(ctx)

	result, err := d.run(ctx, req)
	if err != nil {
		code := Classify(err)
		log.Debug().Err(err).Str("cmd", req.Cmd).Str("pane", req.Label).Str("code", code).Msg("command failed")
		return Response{ID: req.ID, OK: false, Error: err.Error(), Code: code}
	}
	return Response{ID: req.ID, OK: true, Result: result}
}

// DispatchJSON decodes one envelope and returns the encoded response.
func (d *Dispatcher) DispatchJSON(ctx context.Context, data []byte) []byte {
	var req Request
	var resp Response
	if err := json.Unmarshal(data, &req); err != nil {
		resp = Response{OK: false, Error: fmt.Sprintf("malformed request: %v", err), Code: CodeBadRequest}
	} else {
		resp = d.Dispatch(ctx, req)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(Response{ID: resp.ID, OK: false, Error: err.Error(), Code: CodeInternal})
	}
	return out
}

var errUnknownCommand = errors.New("unknown command")

func (d *Dispatcher) run(ctx context.Context, req Request) (any, error) {
	switch req.Cmd {
	case CmdCreate:
		return d.panes.Create(ctx, usecase.CreatePaneInput{Label: req.Label, URL: req.URL, Bounds: req.Rect()})
	case CmdShow:
		return nil, d.panes.Show(ctx, req.Label)
	case CmdHide:
		return nil, d.panes.Hide(ctx, req.Label)
	case CmdClose:
		return nil, d.panes.Close(ctx, req.Label)
	case CmdReposition:
		return nil, d.panes.Reposition(ctx, req.Label, req.Rect())
	case CmdNavigate:
		return nil, d.panes.Navigate(ctx, req.Label, req.URL)
	case CmdReload:
		return nil, d.panes.Reload(ctx, req.Label)
	case CmdBack:
		return nil, d.panes.Back(ctx, req.Label)
	case CmdForward:
		return nil, d.panes.Forward(ctx, req.Label)
	case CmdNavigationState:
		state, err := d.panes.NavigationState(ctx, req.Label)
		if err != nil {
			return nil, err
		}
		return state, nil
	case CmdList:
		labels, err := d.panes.List(ctx)
		if err != nil {
			return nil, err
		}
		if labels == nil {
			labels = []string{}
		}
		return ListResult{Labels: labels}, nil
	case "":
		return nil, fmt.Errorf("%w: missing cmd", errBadRequest)
	default:
		return nil, fmt.Errorf("%w %q", errUnknownCommand, req.Cmd)
	}
}

var errBadRequest = errors.New("bad request")

// Classify maps an error to its response code.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errBadRequest):
		return CodeBadRequest
	case errors.Is(err, errUnknownCommand):
		return CodeUnknownCommand
	case errors.Is(err, entity.ErrPaneNotFound):
		return CodeNotFound
	case errors.Is(err, entity.ErrPaneExists):
		return CodeExists
	case errors.Is(err, entity.ErrInvalidLabel):
		return CodeInvalidLabel
	case errors.Is(err, entity.ErrInvalidURL):
		return CodeInvalidURL
	case errors.Is(err, entity.ErrScaleFactorUnavailable):
		return CodeScaleFactor
	case errors.Is(err, entity.ErrEmbedding):
		return CodeEmbedding
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	default:
		return CodeInternal
	}
}
