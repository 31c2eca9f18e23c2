package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/panehost/internal/application/port"
)

// ErrProviderClosed is returned by DB after Close.
var ErrProviderClosed = errors.New("journal database closed")

// LazyDB opens the journal database on first access, so a serve session that
// never receives telemetry never pays for the WASM compile and migrations.
// The first open error sticks.
type LazyDB struct {
	path string

	mu     sync.Mutex
	db     *sql.DB
	err    error
	closed bool
}

var _ port.DatabaseProvider = (*LazyDB)(nil)

// NewLazyDB creates a provider for path. Nothing is opened yet.
func NewLazyDB(path string) *LazyDB {
	return &LazyDB{path: path}
}

// DB returns the connection, opening it on the first call. Concurrent
// callers wait for the same open.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.closed:
		return nil, ErrProviderClosed
	case l.db != nil:
		return l.db, nil
	case l.err != nil:
		return nil, l.err
	}

	db, err := NewConnection(ctx, l.path)
	if err != nil {
		l.err = fmt.Errorf("open journal database: %w", err)
		return nil, l.err
	}
	l.db = db
	return db, nil
}

// Close closes the connection if it was opened. Later DB calls fail.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// IsInitialized reports whether the connection is open.
func (l *LazyDB) IsInitialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db != nil
}

// Path returns the database path.
func (l *LazyDB) Path() string {
	return l.path
}
