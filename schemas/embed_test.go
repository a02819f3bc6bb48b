package schemas

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	files, err := fs.Glob(Migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		data, err := fs.ReadFile(Migrations, file)
		require.NoError(t, err)
		assert.NotEmpty(t, data, file)
	}
}

func TestQuestions(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal(Questions, &schema))
	assert.Equal(t, "array", schema["type"])
}
