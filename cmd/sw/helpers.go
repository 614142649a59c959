package main

import (
	"context"

	"github.com/Veraticus/sw/internal/config"
	"github.com/Veraticus/sw/internal/service"
	"github.com/Veraticus/sw/internal/storage"
)

// openStorage opens the configured store. The store must already exist;
// "sw init" creates it.
func openStorage(ctx context.Context, cfg *config.StoreConfig) (service.Storage, error) {
	return storage.Open(ctx, cfg.Backend, cfg.Path)
}
