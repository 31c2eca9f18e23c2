// Package entity contains domain entities representing core business concepts.
// These entities are pure Go types with no infrastructure dependencies.
package entity

import (
	"fmt"
	"strings"
)

// maxLabelLength bounds pane labels so they stay usable as log fields and JS literals.
const maxLabelLength = 128

// Visibility is the shown/hidden state of a pane.
// A hidden pane keeps its native handle and page state.
type Visibility int

const (
	VisibilityShown Visibility = iota
	VisibilityHidden
)

// String returns a human-readable representation of the visibility.
func (v Visibility) String() string {
	switch v {
	case VisibilityShown:
		return "shown"
	case VisibilityHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Pane is a snapshot of one embedded browsing surface.
// The authoritative URL and visibility live in the native surface; this type is
// only used when a platform reports what it holds.
type Pane struct {
	Label      string
	URL        string
	Title      string
	Bounds     Rect
	Visibility Visibility
}

// NavigationState is the best-effort history availability of a pane.
type NavigationState struct {
	CanGoBack    bool `json:"canGoBack"`
	CanGoForward bool `json:"canGoForward"`
}

// ApproximateNavigationState returns the state reported for every live pane.
// Embedding platforms do not expose reliable history for externally loaded
// content: back is assumed reachable (history.back() is a no-op when it is not)
// and forward is never advertised.
func ApproximateNavigationState() NavigationState {
	return NavigationState{CanGoBack: true, CanGoForward: false}
}

// ValidateLabel checks that a caller-assigned pane label is usable.
// Allowed characters: ASCII letters, digits, '-', '_', '/', ':'.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: label is empty", ErrInvalidLabel)
	}
	if len(label) > maxLabelLength {
		return fmt.Errorf("%w: label exceeds %d characters", ErrInvalidLabel, maxLabelLength)
	}
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '/', r == ':':
		default:
			return fmt.Errorf("%w: %q contains %q", ErrInvalidLabel, label, r)
		}
	}
	return nil
}
