// Package testutil provides shared test helpers for creating config files and seeded record stores.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/langtutor/internal/store"
)

// unreachableAIBaseURL makes any AI call fail fast so fallbacks are exercised.
const unreachableAIBaseURL = "http://127.0.0.1:1"

// SetupTestConfig creates a minimal config file and the data directory for testing.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dataDir := filepath.Join(tmpDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	configContent := fmt.Sprintf(`server:
  port: 3000
storage:
  driver: file
  data_directory: %s
ai:
  base_url: %s
  timeout: 1s
`, dataDir, unreachableAIBaseURL)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey creates a config file pointing the AI client at baseURL with a fake key.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir string, baseURL string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	updated := strings.Replace(string(content), "base_url: "+unreachableAIBaseURL, "base_url: "+baseURL, 1)
	updated += "  api_key: fake-key-for-testing\n  model: gpt-4o-mini\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(updated), 0644))
	return cfgPath
}

// NewFileStore returns a store backed by a fresh temporary directory, and that directory.
func NewFileStore(t *testing.T) (*store.Store, string) {
	t.Helper()

	dir := t.TempDir()
	backend, err := store.NewFileBackend(dir)
	require.NoError(t, err)
	return store.New(backend), dir
}

// SeedCollection writes records as the named collection file under dataDir.
func SeedCollection(t *testing.T, dataDir, collection string, records any) {
	t.Helper()

	data, err := json.MarshalIndent(records, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, collection+".json"), data, 0644))
}
