package entity

// Event names published to the host UI.
const (
	EventPaneNavigationStarted = "pane-navigation-started"
	EventPaneNavigated         = "pane-navigated"
	EventPaneTitleChanged      = "pane-title-changed"
	EventPaneTelemetry         = "pane-telemetry"
)

// NavigationEvent is the payload of pane-navigation-started and pane-navigated.
type NavigationEvent struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// TitleEvent is the payload of pane-title-changed.
type TitleEvent struct {
	Label string `json:"label"`
	Title string `json:"title"`
}

// TelemetryKind identifies the shape of a pane-telemetry payload.
type TelemetryKind string

const (
	TelemetryPageInfo           TelemetryKind = "page-info"
	TelemetrySelection          TelemetryKind = "selection"
	TelemetryResource           TelemetryKind = "resource"
	TelemetryPaint              TelemetryKind = "paint"
	TelemetryLCP                TelemetryKind = "lcp"
	TelemetryNavigation         TelemetryKind = "navigation"
	TelemetryLongTask           TelemetryKind = "longtask"
	TelemetryFetch              TelemetryKind = "fetch"
	TelemetryFetchError         TelemetryKind = "fetch-error"
	TelemetryXHR                TelemetryKind = "xhr"
	TelemetryConsole            TelemetryKind = "console"
	TelemetryError              TelemetryKind = "error"
	TelemetryUnhandledRejection TelemetryKind = "unhandledrejection"
	TelemetryHeartbeat          TelemetryKind = "heartbeat"
	TelemetryInit               TelemetryKind = "init"
)

var telemetryKinds = map[TelemetryKind]struct{}{
	TelemetryPageInfo:           {},
	TelemetrySelection:          {},
	TelemetryResource:           {},
	TelemetryPaint:              {},
	TelemetryLCP:                {},
	TelemetryNavigation:         {},
	TelemetryLongTask:           {},
	TelemetryFetch:              {},
	TelemetryFetchError:         {},
	TelemetryXHR:                {},
	TelemetryConsole:            {},
	TelemetryError:              {},
	TelemetryUnhandledRejection: {},
	TelemetryHeartbeat:          {},
	TelemetryInit:               {},
}

// Valid reports whether k belongs to the telemetry taxonomy.
func (k TelemetryKind) Valid() bool {
	_, ok := telemetryKinds[k]
	return ok
}

// TelemetryEvent is a pane-telemetry payload. Kind-specific fields are kept
// as decoded JSON values next to the common label/ts/kind keys.
type TelemetryEvent map[string]any

// Label returns the originating pane label.
func (e TelemetryEvent) Label() string {
	s, _ := e["label"].(string)
	return s
}

// Kind returns the telemetry kind.
func (e TelemetryEvent) Kind() TelemetryKind {
	s, _ := e["kind"].(string)
	return TelemetryKind(s)
}

// Timestamp returns the epoch-millisecond timestamp, or 0 when absent.
func (e TelemetryEvent) Timestamp() int64 {
	switch v := e["ts"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
