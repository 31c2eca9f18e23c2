// Package journal persists relayed pane-telemetry events to SQLite. It sits on
// the event hub as an observer; writes happen on a background worker so the UI
// thread never waits on disk.
package journal

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bnema/panehost/internal/application/port"
	"github.com/bnema/panehost/internal/domain/entity"
	"github.com/bnema/panehost/internal/domain/repository"
	"github.com/bnema/panehost/internal/infrastructure/eventbus"
	"github.com/bnema/panehost/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/panehost/internal/logging"
)

const (
	DefaultQueueSize     = 1024
	DefaultBatchSize     = 64
	DefaultFlushInterval = time.Second
)

// ErrClosed is returned by Close on a second call.
var ErrClosed = errors.New("journal closed")

// Options tunes the writer. Zero values select the defaults.
type Options struct {
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	// Retention prunes entries older than this once, when the database is
	// first opened. Zero keeps everything.
	Retention time.Duration
}

// Journal queues telemetry and writes it in batches.
type Journal struct {
	db        port.DatabaseProvider
	opts      Options
	sessionID string
	logger    zerolog.Logger
	now       func() time.Time

	queue chan *entity.JournalEntry
	done  chan struct{}
	wg    sync.WaitGroup

	closeOnce sync.Once
	closed    atomic.Bool
	dropped   atomic.Uint64
	written   atomic.Uint64

	repo repository.TelemetryRepository
}

// New starts the background writer. The database is opened on the first flush.
func New(ctx context.Context, db port.DatabaseProvider, opts Options) *Journal {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = DefaultFlushInterval
	}

	j := &Journal{
		db:        db,
		opts:      opts,
		sessionID: uuid.NewString(),
		logger:    logging.FromContext(ctx).With().Str("component", "journal").Logger(),
		now:       time.Now,
		queue:     make(chan *entity.JournalEntry, opts.QueueSize),
		done:      make(chan struct{}),
	}

	j.wg.Add(1)
	go j.worker()

	return j
}

// SessionID identifies the entries written by this process.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Dropped returns how many events were discarded because the queue was full
// or could not be encoded.
func (j *Journal) Dropped() uint64 {
	return j.dropped.Load()
}

// Written returns how many entries have been committed.
func (j *Journal) Written() uint64 {
	return j.written.Load()
}

// Attach registers the journal as an observer on hub and returns the
// subscription id.
func (j *Journal) Attach(hub *eventbus.Hub) string {
	return hub.Observe(j.Handle)
}

// Handle is an eventbus.Handler. Only pane-telemetry events are kept.
func (j *Journal) Handle(ev eventbus.Event) {
	if ev.Name != entity.EventPaneTelemetry {
		return
	}
	payload, ok := ev.Payload.(entity.TelemetryEvent)
	if !ok {
		j.dropped.Add(1)
		return
	}
	j.Record(payload)
}

// Record encodes ev and queues it without blocking.
func (j *Journal) Record(ev entity.TelemetryEvent) {
	if j.closed.Load() {
		j.dropped.Add(1)
		return
	}

	entry, err := entity.NewJournalEntry(j.sessionID, ev, j.now())
	if err != nil {
		j.dropped.Add(1)
		j.logger.Debug().Err(err).Str("pane", ev.Label()).Msg("cannot encode telemetry")
		return
	}

	select {
	case j.queue <- entry:
	default:
		j.dropped.Add(1)
		j.logger.Warn().Str("pane", entry.Label).Str("kind", string(entry.Kind)).Msg("journal queue full, dropping event")
	}
}

// Close stops the worker after writing everything still queued.
func (j *Journal) Close() error {
	err := ErrClosed
	j.closeOnce.Do(func() {
		j.closed.Store(true)
		close(j.done)
		j.wg.Wait()
		err = nil
	})
	return err
}

func (j *Journal) worker() {
	defer j.wg.Done()

	ctx := logging.WithContext(context.Background(), j.logger)
	ticker := time.NewTicker(j.opts.FlushInterval)
	defer ticker.Stop()

	pending := make([]*entity.JournalEntry, 0, j.opts.BatchSize)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		j.persist(ctx, pending)
		pending = pending[:0]
	}

	drain := func() {
		for {
			select {
			case e := <-j.queue:
				pending = append(pending, e)
				if len(pending) >= j.opts.BatchSize {
					flush()
				}
			default:
				return
			}
		}
	}

	for {
		select {
		case e := <-j.queue:
			pending = append(pending, e)
			if len(pending) >= j.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-j.done:
			j.logger.Debug().Int("remaining", len(j.queue)).Msg("draining journal queue")
			drain()
			flush()
			j.logger.Debug().Uint64("written", j.written.Load()).Msg("journal worker shutdown complete")
			return
		}
	}
}

func (j *Journal) persist(ctx context.Context, batch []*entity.JournalEntry) {
	repo, err := j.repository(ctx)
	if err != nil {
		j.dropped.Add(uint64(len(batch)))
		j.logger.Warn().Err(err).Int("count", len(batch)).Msg("journal unavailable, dropping batch")
		return
	}
	if err := repo.Append(ctx, batch); err != nil {
		j.dropped.Add(uint64(len(batch)))
		j.logger.Warn().Err(err).Int("count", len(batch)).Msg("failed to write journal batch")
		return
	}
	j.written.Add(uint64(len(batch)))
}

// repository is only called from the worker goroutine.
func (j *Journal) repository(ctx context.Context) (repository.TelemetryRepository, error) {
	if j.repo != nil {
		return j.repo, nil
	}
	db, err := j.db.DB(ctx)
	if err != nil {
		return nil, err
	}
	j.repo = sqlite.NewTelemetryRepository(db)

	if j.opts.Retention > 0 {
		removed, err := j.repo.PruneBefore(ctx, j.now().Add(-j.opts.Retention))
		if err != nil {
			j.logger.Warn().Err(err).Msg("failed to prune journal")
		} else if removed > 0 {
			j.logger.Info().Int64("removed", removed).Msg("pruned old journal entries")
		}
	}
	return j.repo, nil
}
