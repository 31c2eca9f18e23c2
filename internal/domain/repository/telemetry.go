package repository

import (
	"context"
	"time"

	"github.com/bnema/panehost/internal/domain/entity"
)

// TelemetryRepository defines operations for the telemetry journal.
type TelemetryRepository interface {
	// Append stores entries in a single transaction. IDs are assigned on success.
	Append(ctx context.Context, entries []*entity.JournalEntry) error

	// Recent returns up to limit entries, newest first.
	// An empty label matches every pane.
	Recent(ctx context.Context, label string, limit int) ([]*entity.JournalEntry, error)

	// CountByKind returns per-kind totals for one session, ordered by kind.
	CountByKind(ctx context.Context, sessionID string) ([]entity.KindCount, error)

	// PruneBefore deletes entries older than cutoff and returns how many were removed.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
