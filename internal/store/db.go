package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/langtutor/schemas"
)

// DBBackend keeps each collection as one row of the collections table in MySQL.
type DBBackend struct {
	db *sqlx.DB
}

func NewDBBackend(db *sqlx.DB) *DBBackend {
	return &DBBackend{db: db}
}

// Migrate applies the embedded migrations in file name order. Each one must be idempotent.
func (b *DBBackend) Migrate(ctx context.Context) error {
	files, err := fs.Glob(schemas.Migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob(migrations) > %w", err)
	}
	slices.Sort(files)

	for _, file := range files {
		statement, err := fs.ReadFile(schemas.Migrations, file)
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s) > %w", file, err)
		}
		if _, err := b.db.ExecContext(ctx, string(statement)); err != nil {
			return fmt.Errorf("db.ExecContext(%s) > %w", file, err)
		}
	}
	return nil
}

func (b *DBBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	var body string
	err := b.db.GetContext(ctx, &body, "SELECT body FROM collections WHERE name = ?", collection)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(collection %s) > %w", collection, err)
	}
	return []byte(body), nil
}

func (b *DBBackend) Write(ctx context.Context, collection string, data []byte) error {
	if _, err := b.db.ExecContext(ctx,
		"INSERT INTO collections (name, body) VALUES (?, ?) ON DUPLICATE KEY UPDATE body = VALUES(body)",
		collection, string(data)); err != nil {
		return fmt.Errorf("db.ExecContext(upsert collection %s) > %w", collection, err)
	}
	return nil
}
