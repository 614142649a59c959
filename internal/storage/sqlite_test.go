package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/sw/internal/common"
	"github.com/Veraticus/sw/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store, dbPath
}

// Helper function to create test movements.
func createTestMovements(count int) []model.Movement {
	movements := make([]model.Movement, count)
	for i := range movements {
		movements[i] = model.Movement{
			ID:        i + 1,
			Timestamp: 1700000000 + int64(i)*3600,
			Amount:    float64(i+1) * 10.50,
			Note:      "movement " + string(rune('A'+i)),
		}
	}
	return movements
}

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	store, _ := createTestStorage(t)
	ctx := context.Background()

	movements := createTestMovements(3)
	movements[1].Amount = -42.25
	require.NoError(t, store.Save(ctx, movements))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, movements, loaded)
}

func TestSQLiteStorage_SaveReplacesEverything(t *testing.T) {
	store, _ := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, createTestMovements(5)))
	require.NoError(t, store.Save(ctx, createTestMovements(2)))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)

	require.NoError(t, store.Save(ctx, nil))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSQLiteStorage_SaveRejectsMultilineNote(t *testing.T) {
	store, _ := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, createTestMovements(2)))

	bad := []model.Movement{{ID: 1, Timestamp: 1, Amount: 1, Note: "two\nlines"}}
	assert.ErrorIs(t, store.Save(ctx, bad), ErrInvalidNote)

	// The previous contents survive a rejected save.
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestSQLiteStorage_SaveRollsBackOnDuplicateID(t *testing.T) {
	store, _ := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, createTestMovements(3)))

	dup := []model.Movement{{ID: 9, Timestamp: 1}, {ID: 9, Timestamp: 2}}
	assert.Error(t, store.Save(ctx, dup))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 3)
}

func TestSQLiteStorage_LoadRejectsStoredNewline(t *testing.T) {
	store, _ := createTestStorage(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO movements (id, ts, amount, note) VALUES (1, 10, 1.5, 'a' || char(10) || 'b')`)
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, common.ErrStoreCorrupt)
}

func TestSQLiteStorage_Migrations(t *testing.T) {
	ctx := context.Background()
	store1, dbPath := createTestStorage(t)
	require.NoError(t, store1.Close())

	// Running migrations again should not error
	store2, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store2.Close() }()
	require.NoError(t, store2.Migrate(ctx))

	var version int
	require.NoError(t, store2.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Verify database is functional after migrations
	assert.NoError(t, store2.Save(ctx, createTestMovements(1)))
}

func TestOpenSQLiteStorage_MissingFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")

	_, err := OpenSQLiteStorage(context.Background(), dbPath)
	assert.ErrorIs(t, err, common.ErrStoreUnreadable)
	assert.NoFileExists(t, dbPath)
}
