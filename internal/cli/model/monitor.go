// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/panehost/internal/app/command"
	"github.com/bnema/panehost/internal/cli/styles"
	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/infrastructure/ipc"
)

const (
	defaultMaxEvents = 500
	paneRefresh      = 2 * time.Second
)

// MonitorSource is the control socket as seen by the monitor.
type MonitorSource interface {
	Call(ctx context.Context, req command.Request) (command.Response, error)
	Subscribe(ctx context.Context, name string) (<-chan ipc.StreamEvent, error)
}

// MonitorModelConfig holds configuration for the monitor model.
type MonitorModelConfig struct {
	Source MonitorSource
	// Target is the window to watch; ipc.SubscribeAll sees every event.
	Target    string
	MaxEvents int
	Socket    string
}

// MonitorModel streams relay events from a running server.
type MonitorModel struct {
	help    help.Model
	keys    monitorKeyMap
	loading styles.LoadingModel

	source    MonitorSource
	target    string
	socket    string
	maxEvents int

	events    []ipc.StreamEvent
	panes     []string
	counts    map[string]int
	connected bool
	paused    bool
	skipped   int
	width     int
	height    int
	err       error

	ctx    context.Context
	stream <-chan ipc.StreamEvent
	theme  *styles.Theme
}

type monitorKeyMap struct {
	Pause key.Binding
	Clear key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k monitorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Clear, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k monitorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pause, k.Clear}, {k.Help, k.Quit}}
}

func defaultMonitorKeyMap() monitorKeyMap {
	return monitorKeyMap{
		Pause: key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause")),
		Clear: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// NewMonitorModel creates a monitor. ctx bounds the event stream.
func NewMonitorModel(ctx context.Context, theme *styles.Theme, cfg MonitorModelConfig) MonitorModel {
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = defaultMaxEvents
	}
	if cfg.Target == "" {
		cfg.Target = ipc.SubscribeAll
	}
	return MonitorModel{
		help:      help.New(),
		keys:      defaultMonitorKeyMap(),
		loading:   styles.NewLoading(theme, "connecting to "+cfg.Socket),
		source:    cfg.Source,
		target:    cfg.Target,
		socket:    cfg.Socket,
		maxEvents: cfg.MaxEvents,
		counts:    make(map[string]int),
		width:     100,
		height:    30,
		ctx:       ctx,
		theme:     theme,
	}
}

type streamOpenedMsg struct {
	stream <-chan ipc.StreamEvent
	err    error
}

type streamEventMsg struct {
	event ipc.StreamEvent
}

type streamClosedMsg struct{}

type panesLoadedMsg struct {
	labels []string
	err    error
}

type refreshTickMsg struct{}

// Init implements tea.Model.
func (m MonitorModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Spinner.Tick, m.openStream, m.loadPanes)
}

func (m MonitorModel) openStream() tea.Msg {
	stream, err := m.source.Subscribe(m.ctx, m.target)
	return streamOpenedMsg{stream: stream, err: err}
}

func (m MonitorModel) loadPanes() tea.Msg {
	resp, err := m.source.Call(m.ctx, command.Request{Cmd: command.CmdList})
	if err != nil {
		return panesLoadedMsg{err: err}
	}
	var result command.ListResult
	if err := decodeResult(resp.Result, &result); err != nil {
		return panesLoadedMsg{err: err}
	}
	return panesLoadedMsg{labels: result.Labels}
}

func waitForEvent(stream <-chan ipc.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-stream
		if !ok {
			return streamClosedMsg{}
		}
		return streamEventMsg{event: ev}
	}
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(paneRefresh, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

// Update implements tea.Model.
func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if m.connected || m.err != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.loading.Spinner, cmd = m.loading.Spinner.Update(msg)
		return m, cmd

	case streamOpenedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.connected = true
		m.stream = msg.stream
		return m, tea.Batch(waitForEvent(m.stream), scheduleRefresh())

	case streamEventMsg:
		m.record(msg.event)
		return m, waitForEvent(m.stream)

	case streamClosedMsg:
		m.connected = false
		m.err = fmt.Errorf("event stream closed by server")
		return m, nil

	case panesLoadedMsg:
		if msg.err == nil {
			m.panes = msg.labels
		}
		return m, nil

	case refreshTickMsg:
		if !m.connected {
			return m, nil
		}
		return m, tea.Batch(m.loadPanes, scheduleRefresh())
	}
	return m, nil
}

func (m *MonitorModel) record(ev ipc.StreamEvent) {
	m.counts[eventKind(ev)]++
	if m.paused {
		m.skipped++
		return
	}
	m.events = append(m.events, ev)
	if over := len(m.events) - m.maxEvents; over > 0 {
		m.events = append(m.events[:0:0], m.events[over:]...)
	}
}

func (m MonitorModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if !m.paused {
			m.skipped = 0
		}
	case key.Matches(msg, m.keys.Clear):
		m.events = nil
		m.counts = make(map[string]int)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// View implements tea.Model.
func (m MonitorModel) View() string {
	if m.err != nil {
		return "\n  " + m.theme.ErrorStyle.Render(styles.IconX+" "+m.err.Error()) + "\n\n  " +
			m.theme.Subtle.Render("press q to quit") + "\n"
	}
	if !m.connected {
		return "\n  " + m.loading.View() + "\n"
	}

	header := m.renderHeader()
	footer := m.help.View(m.keys)
	listHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderEvents(listHeight), "", footer)
}

func (m MonitorModel) renderHeader() string {
	title := m.theme.Title.Render("panehost monitor")
	target := m.theme.MutedBadge("target " + m.target)
	status := m.theme.AccentBadge("live")
	if m.paused {
		status = m.theme.StatusBadge(fmt.Sprintf("paused +%d", m.skipped), m.theme.Background, m.theme.Warning)
	}

	panes := m.theme.Subtle.Render("no panes")
	if len(m.panes) > 0 {
		panes = m.theme.Normal.Render(strings.Join(m.panes, "  "))
	}
	line := fmt.Sprintf("%s %s %s", title, target, status)
	return lipgloss.JoinVertical(lipgloss.Left,
		line,
		fmt.Sprintf("%s %s", m.theme.Highlight.Render(styles.IconPane), panes),
		m.theme.Subtle.Render(m.renderCounts()),
	)
}

func (m MonitorModel) renderCounts() string {
	if len(m.counts) == 0 {
		return "waiting for events"
	}
	kinds := make([]string, 0, len(m.counts))
	for kind := range m.counts {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s %s", kind, styles.FormatCount(int64(m.counts[kind]))))
	}
	return strings.Join(parts, " · ")
}

func (m MonitorModel) renderEvents(height int) string {
	if height < 1 {
		height = 1
	}
	events := m.events
	if len(events) > height {
		events = events[len(events)-height:]
	}
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		lines = append(lines, m.renderEvent(ev))
	}
	return strings.Join(lines, "\n")
}

func (m MonitorModel) renderEvent(ev ipc.StreamEvent) string {
	at := ev.At
	if ts, err := time.Parse(time.RFC3339Nano, ev.At); err == nil {
		at = ts.Local().Format("15:04:05.000")
	}
	label, detail := summarize(ev)
	line := fmt.Sprintf("%s %s %s %s",
		m.theme.Subtle.Render(at),
		m.theme.EventBadge(eventKind(ev)),
		m.theme.Highlight.Render(label),
		detail,
	)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

// eventKind is the telemetry kind for pane-telemetry, else the event name.
func eventKind(ev ipc.StreamEvent) string {
	if ev.Event != entity.EventPaneTelemetry {
		return ev.Event
	}
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(ev.Payload, &head); err != nil || head.Kind == "" {
		return ev.Event
	}
	return head.Kind
}

func summarize(ev ipc.StreamEvent) (label, detail string) {
	var fields map[string]any
	if err := json.Unmarshal(ev.Payload, &fields); err != nil {
		return "", string(ev.Payload)
	}
	label, _ = fields["label"].(string)
	switch ev.Event {
	case entity.EventPaneNavigationStarted, entity.EventPaneNavigated:
		detail, _ = fields["url"].(string)
	case entity.EventPaneTitleChanged:
		detail, _ = fields["title"].(string)
	default:
		delete(fields, "label")
		delete(fields, "kind")
		delete(fields, "ts")
		if len(fields) > 0 {
			raw, _ := json.Marshal(fields)
			detail = string(raw)
		}
	}
	return label, detail
}

func decodeResult(result any, out any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
