package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/sw/internal/common"
	"github.com/Veraticus/sw/internal/service"
)

// Supported storage backends.
const (
	BackendText   = "text"
	BackendSQLite = "sqlite"
)

// Open returns the storage for an existing store.
func Open(ctx context.Context, backend, path string) (service.Storage, error) {
	switch backend {
	case BackendText, "":
		return NewTextStorage(path)
	case BackendSQLite:
		return OpenSQLiteStorage(ctx, path)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", common.ErrInvalidConfig, backend)
	}
}

// Create initializes an empty store at path. It reports false when a store
// already exists there; an existing SQLite store is still migrated.
func Create(ctx context.Context, backend, path string) (bool, error) {
	if err := validateString(path, "path"); err != nil {
		return false, err
	}

	switch backend {
	case BackendText, "":
		return createTextStore(path)
	case BackendSQLite:
		existed := fileExists(path)
		store, err := NewSQLiteStorage(path)
		if err != nil {
			return false, err
		}
		defer func() { _ = store.Close() }()
		if err := store.Migrate(ctx); err != nil {
			return false, fmt.Errorf("failed to run migrations: %w", err)
		}
		return !existed, nil
	default:
		return false, fmt.Errorf("%w: unknown store backend %q", common.ErrInvalidConfig, backend)
	}
}
