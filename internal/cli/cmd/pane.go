package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bnema/panehost/internal/app/command"
	"github.com/bnema/panehost/internal/application/usecase"
	"github.com/bnema/panehost/internal/cli/styles"
	"github.com/bnema/panehost/internal/domain/entity"
	urlutil "github.com/bnema/panehost/internal/domain/url"
	"github.com/bnema/panehost/internal/infrastructure/ipc"
)

var (
	paneJSON   bool
	paneBounds struct {
		x, y, width, height float64
	}
)

var paneCmd = &cobra.Command{
	Use:   "pane",
	Short: "Drive panes on a running host",
	Long: `Send lifecycle commands to a running 'panehost serve' over its control socket.

Examples:
  panehost pane create docs example.com --width 800 --height 600
  panehost pane navigate docs https://example.org
  panehost pane move docs 0 40 800 560
  panehost pane list`,
}

var paneCreateCmd = &cobra.Command{
	Use:   "create <label> <url>",
	Short: "Attach a new pane",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return runPane(command.Request{
			Cmd: command.CmdCreate, Label: args[0], URL: urlutil.Normalize(args[1]),
			X: paneBounds.x, Y: paneBounds.y, Width: paneBounds.width, Height: paneBounds.height,
		})
	},
}

var paneMoveCmd = &cobra.Command{
	Use:   "move <label> <x> <y> <width> <height>",
	Short: "Reposition and resize a pane",
	Args:  cobra.ExactArgs(5),
	RunE: func(_ *cobra.Command, args []string) error {
		nums, err := parseFloats(args[1:])
		if err != nil {
			return err
		}
		return runPane(command.Request{
			Cmd: command.CmdReposition, Label: args[0],
			X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3],
		})
	},
}

var paneNavigateCmd = &cobra.Command{
	Use:   "navigate <label> <url>",
	Short: "Load a URL in a pane",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return runPane(command.Request{Cmd: command.CmdNavigate, Label: args[0], URL: urlutil.Normalize(args[1])})
	},
}

var paneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live panes",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runPane(command.Request{Cmd: command.CmdList})
	},
}

// labelCommand builds a subcommand taking only a pane label.
func labelCommand(use, short, cmd string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <label>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPane(command.Request{Cmd: cmd, Label: args[0]})
		},
	}
}

func init() {
	rootCmd.AddCommand(paneCmd)
	paneCmd.PersistentFlags().BoolVar(&paneJSON, "json", false, "print the raw response")

	paneCreateCmd.Flags().Float64Var(&paneBounds.x, "x", 0, "left edge")
	paneCreateCmd.Flags().Float64Var(&paneBounds.y, "y", 0, "top edge")
	paneCreateCmd.Flags().Float64Var(&paneBounds.width, "width", 800, "width")
	paneCreateCmd.Flags().Float64Var(&paneBounds.height, "height", 600, "height")

	paneCmd.AddCommand(
		paneCreateCmd,
		paneMoveCmd,
		paneNavigateCmd,
		paneListCmd,
		labelCommand("show", "Show a pane", command.CmdShow),
		labelCommand("hide", "Hide a pane without unloading it", command.CmdHide),
		labelCommand("close", "Destroy a pane", command.CmdClose),
		labelCommand("reload", "Reload a pane", command.CmdReload),
		labelCommand("back", "Go back in a pane's history", command.CmdBack),
		labelCommand("forward", "Go forward in a pane's history", command.CmdForward),
		labelCommand("state", "Show back/forward availability", command.CmdNavigationState),
	)
}

func runPane(req command.Request) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	resp, err := app.Client().Call(app.Ctx(), req)
	if paneJSON && (err == nil || errors.Is(err, ipc.ErrRequestFailed)) {
		out, _ := json.Marshal(resp)
		fmt.Println(string(out))
		return err
	}

	renderer := styles.NewPaneRenderer(app.Theme)
	if err != nil {
		if errors.Is(err, ipc.ErrRequestFailed) {
			fmt.Println(renderer.RenderFailure(resp.Error, resp.Code))
			return errSilent
		}
		return fmt.Errorf("%s: %w (is 'panehost serve' running on %s?)", req.Cmd, err, app.SocketPath())
	}

	output, err := renderResponse(renderer, req, resp)
	if err != nil {
		return err
	}
	fmt.Println(output)
	return nil
}

func renderResponse(r *styles.PaneRenderer, req command.Request, resp command.Response) (string, error) {
	switch req.Cmd {
	case command.CmdCreate:
		var out usecase.CreatePaneOutput
		if err := decodeResult(resp.Result, &out); err != nil {
			return "", err
		}
		return r.RenderCreated(out.Label, out.URL, out.Bounds), nil
	case command.CmdList:
		var out command.ListResult
		if err := decodeResult(resp.Result, &out); err != nil {
			return "", err
		}
		return r.RenderList(out.Labels), nil
	case command.CmdNavigationState:
		var out entity.NavigationState
		if err := decodeResult(resp.Result, &out); err != nil {
			return "", err
		}
		return r.RenderNavigationState(req.Label, out), nil
	default:
		return r.RenderDone(req.Cmd, req.Label), nil
	}
}

func decodeResult(result, out any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}
