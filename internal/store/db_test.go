package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDBBackend(t *testing.T) (*DBBackend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewDBBackend(sqlx.NewDb(db, "mysql")), mock
}

func TestDBBackend_Read(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []byte
		wantErr   bool
	}{
		{
			name: "returns stored body",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT body FROM collections WHERE name = \\?").
					WithArgs("users").
					WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`[{"username":"alice"}]`))
			},
			want: []byte(`[{"username":"alice"}]`),
		},
		{
			name: "missing row is nil",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT body FROM collections WHERE name = \\?").
					WithArgs("users").
					WillReturnRows(sqlmock.NewRows([]string{"body"}))
			},
			want: nil,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT body FROM collections WHERE name = \\?").
					WithArgs("users").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, mock := newMockDBBackend(t)
			tt.setupMock(mock)

			got, err := backend.Read(context.Background(), "users")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBBackend_Write(t *testing.T) {
	backend, mock := newMockDBBackend(t)
	mock.ExpectExec("INSERT INTO collections \\(name, body\\) VALUES \\(\\?, \\?\\) ON DUPLICATE KEY UPDATE body = VALUES\\(body\\)").
		WithArgs("users", "[]").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, backend.Write(context.Background(), "users", []byte("[]")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBBackend_Migrate(t *testing.T) {
	backend, mock := newMockDBBackend(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS collections").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, backend.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollection_WithDBBackend(t *testing.T) {
	backend, mock := newMockDBBackend(t)
	mock.ExpectQuery("SELECT body FROM collections WHERE name = \\?").
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))
	mock.ExpectExec("INSERT INTO collections").
		WithArgs("users", "[\n  \"alice\"\n]").
		WillReturnResult(sqlmock.NewResult(0, 1))

	users := NewCollection[string](New(backend), "users")
	require.NoError(t, users.Append(context.Background(), "alice"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
