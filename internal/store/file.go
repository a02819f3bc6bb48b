package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps each collection in <directory>/<collection>.json.
type FileBackend struct {
	directory string
}

func NewFileBackend(directory string) (*FileBackend, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", directory, err)
	}
	return &FileBackend{directory: directory}, nil
}

func (b *FileBackend) path(collection string) string {
	return filepath.Join(b.directory, collection+".json")
}

func (b *FileBackend) Read(_ context.Context, collection string) ([]byte, error) {
	data, err := os.ReadFile(b.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", b.path(collection), err)
	}
	return data, nil
}

// Write replaces the collection file through a rename so readers never see a partial file.
func (b *FileBackend) Write(_ context.Context, collection string, data []byte) error {
	file, err := os.CreateTemp(b.directory, collection+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s) > %w", b.directory, err)
	}
	tmpPath := file.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("file.Write(%s) > %w", tmpPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close(%s) > %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, b.path(collection)); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", tmpPath, err)
	}
	return nil
}
