package main

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/langtutor/internal/config"
	"github.com/at-ishikawa/langtutor/internal/store"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	storageDriver.Apply(loader)
	return loader.Load()
}

// openStore loads the configuration and opens its store. Callers must call the returned close function.
func openStore(ctx context.Context) (*config.Config, *store.Store, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	s, closeStore, err := store.Open(ctx, cfg.Storage, cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("store.Open() > %w", err)
	}
	return cfg, s, closeStore, nil
}
