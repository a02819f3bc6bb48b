package main

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/langtutor/internal/config"
)

func strconvID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// storeConfig reads the storage settings written to cfgPath.
func storeConfig(t *testing.T, cfgPath string) (config.StorageConfig, config.DatabaseConfig) {
	t.Helper()

	loader, err := config.NewConfigLoader(cfgPath)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	return cfg.Storage, cfg.Database
}
