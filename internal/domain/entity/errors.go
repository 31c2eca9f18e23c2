package entity

import "errors"

// Sentinel errors for pane lifecycle operations. Callers classify with errors.Is.
var (
	ErrPaneNotFound           = errors.New("pane not found")
	ErrPaneExists             = errors.New("pane already exists")
	ErrInvalidLabel           = errors.New("invalid pane label")
	ErrInvalidURL             = errors.New("invalid URL")
	ErrScaleFactorUnavailable = errors.New("scale factor unavailable")
	ErrEmbedding              = errors.New("embedding platform error")
)
