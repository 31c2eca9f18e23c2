// Package instrument renders the initialization script injected into every
// pane. The script is executed by the embedding platform before page content
// runs, and again on each navigation.
package instrument

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/grafana/sobek"

	"github.com/bnema/panehost/internal/domain/entity"
)

//go:embed scripts/*.js.tmpl
var scriptFS embed.FS

// Mode selects the script variant.
type Mode string

const (
	// ModeNone installs a placeholder that only logs readiness.
	ModeNone Mode = "none"
	// ModeTelemetry installs the full telemetry bridge.
	ModeTelemetry Mode = "telemetry"
)

// Limits applied by the telemetry script.
const (
	DefaultHeartbeatInterval = 5 * time.Second
	MaxSelectionLength       = 500
	MaxPreviewLength         = 2000
	MaxLinks                 = 200
	MaxHeadings              = 50
	ConsoleBufferSize        = 50
)

// ParseMode parses a configuration value.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeNone:
		return ModeNone, nil
	case ModeTelemetry, "":
		return ModeTelemetry, nil
	default:
		return "", fmt.Errorf("unknown instrumentation mode %q (want none or telemetry)", s)
	}
}

// Options configures a Builder.
type Options struct {
	Mode              Mode
	Target            string
	HeartbeatInterval time.Duration
}

type templateData struct {
	Label         string
	Target        string
	Event         string
	MaxSelection  int
	MaxPreview    int
	MaxLinks      int
	MaxHeadings   int
	ConsoleBuffer int
	HeartbeatMS   int64
}

// Builder renders per-pane scripts. It is safe for concurrent use.
type Builder struct {
	opts Options
	tmpl *template.Template
}

// NewBuilder parses the template for opts.Mode and compiles a sample
// rendering so a broken asset fails at startup rather than inside a page.
func NewBuilder(opts Options) (*Builder, error) {
	if opts.Mode == "" {
		opts.Mode = ModeTelemetry
	}
	if opts.Target == "" {
		opts.Target = "main"
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = DefaultHeartbeatInterval
	}

	var name string
	switch opts.Mode {
	case ModeNone:
		name = "noop.js.tmpl"
	case ModeTelemetry:
		name = "telemetry.js.tmpl"
	default:
		return nil, fmt.Errorf("unknown instrumentation mode %q", opts.Mode)
	}

	tmpl, err := template.New(name).Option("missingkey=error").ParseFS(scriptFS, "scripts/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	b := &Builder{opts: opts, tmpl: tmpl}
	sample, err := b.render("sample-pane")
	if err != nil {
		return nil, err
	}
	if _, err := sobek.Compile(name, sample, false); err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return b, nil
}

// Mode returns the variant this builder renders.
func (b *Builder) Mode() Mode {
	return b.opts.Mode
}

// Build returns the script bound to label.
func (b *Builder) Build(label string) (string, error) {
	if err := entity.ValidateLabel(label); err != nil {
		return "", err
	}
	return b.render(label)
}

func (b *Builder) render(label string) (string, error) {
	data := templateData{
		Label:         jsString(label),
		Target:        jsString(b.opts.Target),
		Event:         jsString(entity.EventPaneTelemetry),
		MaxSelection:  MaxSelectionLength,
		MaxPreview:    MaxPreviewLength,
		MaxLinks:      MaxLinks,
		MaxHeadings:   MaxHeadings,
		ConsoleBuffer: ConsoleBufferSize,
		HeartbeatMS:   b.opts.HeartbeatInterval.Milliseconds(),
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render init script: %w", err)
	}
	return buf.String(), nil
}

// jsString encodes s as a JavaScript string literal. encoding/json escapes
// <, >, & and U+2028/U+2029, so the result is safe inline in any script.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
