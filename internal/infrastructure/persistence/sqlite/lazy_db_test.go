package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/panehost/internal/infrastructure/persistence/sqlite"
)

func TestLazyDB_NotInitializedByDefault(t *testing.T) {
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "journal.db"))

	assert.False(t, lazy.IsInitialized())
}

func TestLazyDB_InitializesOnFirstAccess(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "journal.db"))

	db, err := lazy.DB(ctx)
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.True(t, lazy.IsInitialized())

	require.NoError(t, lazy.Close())
}

func TestLazyDB_ConcurrentAccessReturnsSameConnection(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "journal.db"))

	const goroutines = 10
	var wg sync.WaitGroup
	dbs := make([]*sql.DB, goroutines)
	errs := make([]error, goroutines)

	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dbs[i], errs[i] = lazy.DB(ctx)
		}()
	}
	wg.Wait()

	for i := range goroutines {
		require.NoError(t, errs[i])
		assert.Same(t, dbs[0], dbs[i])
	}

	require.NoError(t, lazy.Close())
}

func TestLazyDB_CloseBeforeInit(t *testing.T) {
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "journal.db"))

	assert.NoError(t, lazy.Close())

	_, err := lazy.DB(testCtx())
	assert.ErrorIs(t, err, sqlite.ErrProviderClosed)
	assert.False(t, lazy.IsInitialized())
}

func TestLazyDB_EmptyPathFails(t *testing.T) {
	lazy := sqlite.NewLazyDB("")

	_, err := lazy.DB(testCtx())
	assert.Error(t, err)
}

func TestLazyDB_Path(t *testing.T) {
	lazy := sqlite.NewLazyDB("/some/path/to/journal.db")

	assert.Equal(t, "/some/path/to/journal.db", lazy.Path())
}

func TestLazyDB_SchemaIsMigrated(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "journal.db"))
	t.Cleanup(func() { _ = lazy.Close() })

	db, err := lazy.DB(ctx)
	require.NoError(t, err)

	version, err := sqlite.GetMigrationStatus(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM telemetry_events").Scan(&n))
	assert.Zero(t, n)
}
