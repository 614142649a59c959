package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/sw/internal/common"
	"github.com/Veraticus/sw/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance, creating the
// database file if needed. Call Migrate before use.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// OpenSQLiteStorage opens an existing database and brings its schema up to
// date. A missing file is reported as common.ErrStoreUnreadable rather than
// silently creating an empty ledger.
func OpenSQLiteStorage(ctx context.Context, dbPath string) (*SQLiteStorage, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrStoreUnreadable, dbPath, err)
	}

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnreadable, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Load reads every movement in id order.
func (s *SQLiteStorage) Load(ctx context.Context) ([]model.Movement, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, amount, note
		FROM movements
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query movements: %w", common.ErrStoreUnreadable, err)
	}
	defer func() { _ = rows.Close() }()

	var movements []model.Movement
	for rows.Next() {
		var m model.Movement
		if err := rows.Scan(&m.ID, &m.Timestamp, &m.Amount, &m.Note); err != nil {
			return nil, fmt.Errorf("%w: failed to scan movement: %w", common.ErrStoreCorrupt, err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnreadable, err)
	}

	if err := validateMovements(movements); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreCorrupt, err)
	}

	return movements, nil
}

// Save replaces every stored movement in a single transaction.
func (s *SQLiteStorage) Save(ctx context.Context, movements []model.Movement) (err error) {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMovements(movements); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM movements`); err != nil {
		return fmt.Errorf("failed to clear movements: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO movements (id, ts, amount, note)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, m := range movements {
		if _, err = stmt.ExecContext(ctx, m.ID, m.Timestamp, m.Amount, m.Note); err != nil {
			return fmt.Errorf("failed to save movement %d: %w", m.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
