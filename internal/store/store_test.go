package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_store "github.com/at-ishikawa/langtutor/internal/mocks/store"
	"github.com/at-ishikawa/langtutor/internal/store"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newFileCollection(t *testing.T) (*store.Collection[record], string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := store.NewFileBackend(dir)
	require.NoError(t, err)
	return store.NewCollection[record](store.New(backend), "records"), dir
}

func TestCollection_All(t *testing.T) {
	tests := []struct {
		name        string
		fileContent *string
		want        []record
	}{
		{
			name: "missing file is empty",
			want: []record{},
		},
		{
			name:        "empty file is empty",
			fileContent: ptr(""),
			want:        []record{},
		},
		{
			name:        "malformed file is treated as empty",
			fileContent: ptr(`[{"name": "a",`),
			want:        []record{},
		},
		{
			name:        "null document is empty",
			fileContent: ptr("null"),
			want:        []record{},
		},
		{
			name:        "records are decoded in order",
			fileContent: ptr(`[{"name": "a", "count": 1}, {"name": "b", "count": 2}]`),
			want:        []record{{Name: "a", Count: 1}, {Name: "b", Count: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collection, dir := newFileCollection(t)
			if tt.fileContent != nil {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "records.json"), []byte(*tt.fileContent), 0644))
			}

			got, err := collection.All(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollection_Update(t *testing.T) {
	t.Run("writes an indented JSON array", func(t *testing.T) {
		collection, dir := newFileCollection(t)
		require.NoError(t, collection.Append(context.Background(), record{Name: "a", Count: 1}))

		content, err := os.ReadFile(filepath.Join(dir, "records.json"))
		require.NoError(t, err)
		assert.Equal(t, "[\n  {\n    \"name\": \"a\",\n    \"count\": 1\n  }\n]", string(content))
	})

	t.Run("nil result is saved as an empty array", func(t *testing.T) {
		collection, dir := newFileCollection(t)
		require.NoError(t, collection.Update(context.Background(), func(records []record) ([]record, error) {
			return nil, nil
		}))

		content, err := os.ReadFile(filepath.Join(dir, "records.json"))
		require.NoError(t, err)
		assert.Equal(t, "[]", string(content))
	})

	t.Run("error from fn aborts the write", func(t *testing.T) {
		collection, _ := newFileCollection(t)
		require.NoError(t, collection.Append(context.Background(), record{Name: "kept"}))

		wantErr := errors.New("rejected")
		err := collection.Update(context.Background(), func(records []record) ([]record, error) {
			return append(records, record{Name: "dropped"}), wantErr
		})
		assert.ErrorIs(t, err, wantErr)

		got, err := collection.All(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []record{{Name: "kept"}}, got)
	})

	t.Run("concurrent updates are serialized", func(t *testing.T) {
		collection, _ := newFileCollection(t)
		require.NoError(t, collection.Append(context.Background(), record{Name: "counter"}))

		const workers = 20
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, collection.Update(context.Background(), func(records []record) ([]record, error) {
					records[0].Count++
					return records, nil
				}))
			}()
		}
		wg.Wait()

		got, err := collection.All(context.Background())
		require.NoError(t, err)
		assert.Equal(t, workers, got[0].Count)
	})
}

func TestCollection_BackendErrors(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m *mock_store.MockBackend)
		run       func(c *store.Collection[record]) error
		wantError string
	}{
		{
			name: "read error is returned",
			setupMock: func(m *mock_store.MockBackend) {
				m.EXPECT().Read(gomock.Any(), "records").Return(nil, errors.New("permission denied"))
			},
			run: func(c *store.Collection[record]) error {
				_, err := c.All(context.Background())
				return err
			},
			wantError: "backend.Read(records) > permission denied",
		},
		{
			name: "write error is returned",
			setupMock: func(m *mock_store.MockBackend) {
				m.EXPECT().Read(gomock.Any(), "records").Return([]byte("[]"), nil)
				m.EXPECT().Write(gomock.Any(), "records", gomock.Any()).Return(errors.New("disk full"))
			},
			run: func(c *store.Collection[record]) error {
				return c.Append(context.Background(), record{Name: "a"})
			},
			wantError: "backend.Write(records) > disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			backend := mock_store.NewMockBackend(ctrl)
			tt.setupMock(backend)

			err := tt.run(store.NewCollection[record](store.New(backend), "records"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func ptr(s string) *string {
	return &s
}
