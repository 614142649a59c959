package config

import (
	"fmt"

	"github.com/Veraticus/sw/internal/common"
	"github.com/spf13/viper"
)

// Defaults used when neither flags, environment nor config file say otherwise.
const (
	DefaultStorePath    = "~/.sw"
	DefaultStoreBackend = "text"
	DefaultDisplayLimit = 25
)

// StoreConfig says where the ledger lives and how much of it to show.
type StoreConfig struct {
	Path    string
	Backend string
	Limit   int
}

// DefaultStoreConfig returns the built-in defaults.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Path:    DefaultStorePath,
		Backend: DefaultStoreBackend,
		Limit:   DefaultDisplayLimit,
	}
}

// LoadStoreConfig reads the store settings from Viper. It follows this precedence:
// 1. Command-line flags bound to the keys
// 2. SW_ environment variables and the config file
// 3. Default values
func LoadStoreConfig() (*StoreConfig, error) {
	config := DefaultStoreConfig()

	if v := viper.GetString("store.path"); v != "" {
		config.Path = v
	}
	if v := viper.GetString("store.backend"); v != "" {
		config.Backend = v
	}
	if viper.IsSet("display.limit") {
		config.Limit = viper.GetInt("display.limit")
	}

	config.Path = ExpandPath(config.Path)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration for values the ledger cannot use.
func (c StoreConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: store path is empty", common.ErrInvalidConfig)
	}
	switch c.Backend {
	case "text", "sqlite":
	default:
		return fmt.Errorf("%w: unknown store backend %q (want text or sqlite)", common.ErrInvalidConfig, c.Backend)
	}
	if c.Limit < 0 {
		return common.InvalidArgument("limit must not be negative, got %d", c.Limit)
	}
	return nil
}
