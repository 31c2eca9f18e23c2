package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/domain/repository"
	"github.com/bnema/panehost/internal/logging"
)

const (
	insertTelemetrySQL = `INSERT INTO telemetry_events (session_id, label, kind, ts, payload) VALUES (?, ?, ?, ?, ?)`

	recentTelemetrySQL = `SELECT id, session_id, label, kind, ts, payload FROM telemetry_events
WHERE (? = '' OR label = ?) ORDER BY ts DESC, id DESC LIMIT ?`

	countByKindSQL = `SELECT kind, COUNT(*) FROM telemetry_events WHERE session_id = ? GROUP BY kind ORDER BY kind`

	pruneTelemetrySQL = `DELETE FROM telemetry_events WHERE ts < ?`
)

type telemetryRepo struct {
	db *sql.DB
}

// NewTelemetryRepository creates a SQLite-backed telemetry journal.
func NewTelemetryRepository(db *sql.DB) repository.TelemetryRepository {
	return &telemetryRepo{db: db}
}

func (r *telemetryRepo) Append(ctx context.Context, entries []*entity.JournalEntry) (err error) {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertTelemetrySQL)
	if err != nil {
		return fmt.Errorf("prepare journal insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, len(entries))
	for i, e := range entries {
		res, execErr := stmt.ExecContext(ctx, e.SessionID, e.Label, string(e.Kind), e.Timestamp.UnixMilli(), string(e.Payload))
		if execErr != nil {
			return fmt.Errorf("insert journal entry: %w", execErr)
		}
		if ids[i], err = res.LastInsertId(); err != nil {
			return fmt.Errorf("journal entry id: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit journal tx: %w", err)
	}
	for i, e := range entries {
		e.ID = ids[i]
	}

	logging.FromContext(ctx).Debug().Int("count", len(entries)).Msg("journal entries appended")
	return nil
}

func (r *telemetryRepo) Recent(ctx context.Context, label string, limit int) ([]*entity.JournalEntry, error) {
	if limit <= 0 {
		return []*entity.JournalEntry{}, nil
	}

	rows, err := r.db.QueryContext(ctx, recentTelemetrySQL, label, label, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	entries := make([]*entity.JournalEntry, 0, limit)
	for rows.Next() {
		var (
			e       entity.JournalEntry
			kind    string
			ts      int64
			payload string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Label, &kind, &ts, &payload); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.Kind = entity.TelemetryKind(kind)
		e.Timestamp = time.UnixMilli(ts)
		e.Payload = json.RawMessage(payload)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *telemetryRepo) CountByKind(ctx context.Context, sessionID string) ([]entity.KindCount, error) {
	rows, err := r.db.QueryContext(ctx, countByKindSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("count journal kinds: %w", err)
	}
	defer rows.Close()

	var counts []entity.KindCount
	for rows.Next() {
		var (
			kind  string
			count int64
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		counts = append(counts, entity.KindCount{Kind: entity.TelemetryKind(kind), Count: count})
	}
	return counts, rows.Err()
}

func (r *telemetryRepo) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, pruneTelemetrySQL, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	return res.RowsAffected()
}
