// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/sw/internal/model"
)

// Storage defines the contract for our persistence layer. The whole
// collection is read and written at once; there is no per-record update.
type Storage interface {
	// Load reads every persisted movement. A missing or unreadable store
	// yields common.ErrStoreUnreadable, a malformed one common.ErrStoreCorrupt.
	Load(ctx context.Context) ([]model.Movement, error)
	// Save replaces the persisted state with movements. Not atomic.
	Save(ctx context.Context, movements []model.Movement) error
	Close() error
}

// Renderer presents the outcome of a run.
type Renderer interface {
	Render(view model.View) error
}
