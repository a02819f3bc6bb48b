package store

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/langtutor/internal/config"
	"github.com/at-ishikawa/langtutor/internal/database"
)

// Open builds a Store for the configured driver. The returned close function
// releases the database connection and is a no-op for the file backend.
func Open(ctx context.Context, storage config.StorageConfig, db config.DatabaseConfig) (*Store, func() error, error) {
	switch storage.Driver {
	case config.StorageDriverMySQL:
		conn, err := database.Open(db)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		backend := NewDBBackend(conn)
		if err := backend.Migrate(ctx); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("backend.Migrate() > %w", err)
		}
		return New(backend), conn.Close, nil
	case config.StorageDriverFile, "":
		backend, err := NewFileBackend(storage.DataDirectory)
		if err != nil {
			return nil, nil, fmt.Errorf("NewFileBackend(%s) > %w", storage.DataDirectory, err)
		}
		return New(backend), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", storage.Driver)
	}
}
