package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/langtutor/internal/learner"
	"github.com/at-ishikawa/langtutor/internal/quiz"
	"github.com/at-ishikawa/langtutor/internal/store"
	"github.com/at-ishikawa/langtutor/internal/testutil"
)

func init() {
	color.NoColor = true
}

const questionsYAML = `questions:
  - id: 1
    text: "She ___ to school."
    options: [go, goes, going, gone]
    answer: goes
    topic: grammar
  - id: 2
    text: "Opposite of cold?"
    options: [hot, wet, dry, icy]
    answer: hot
    topic: vocabulary
`

// execute runs the root command against a fresh config and returns its output.
func execute(t *testing.T, cfgPath string, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		configFile = ""
		storageDriver = ""
	})

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantDebug bool
	}{
		{name: "debug mode enabled", debugMode: true, wantDebug: true},
		{name: "debug mode disabled", debugMode: false, wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			assert.Equal(t, tt.wantDebug, slog.Default().Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "langtutor", cmd.Use)
	for _, name := range []string{"config", "debug", "storage"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	for _, path := range [][]string{{"user", "show"}, {"quiz", "list"}, {"quiz", "assign"}, {"quiz", "delete"}, {"quiz", "take"}, {"validate"}, {"migrate", "import-db"}} {
		found, _, err := cmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestNewMigrateImportDBCommand(t *testing.T) {
	cmd := newMigrateImportDBCommand()

	assert.Equal(t, "import-db", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	for _, name := range []string{"dry-run", "update-existing"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "false", flag.DefValue)
	}
}

func TestQuizCommands(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	questionsFile := filepath.Join(tmpDir, "questions.yml")
	require.NoError(t, os.WriteFile(questionsFile, []byte(questionsYAML), 0644))

	out, err := execute(t, cfgPath, "", "quiz", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No assigned quizzes")

	out, err = execute(t, cfgPath, "", "quiz", "assign", "--title", "Week 1", "--file", questionsFile)
	require.NoError(t, err)
	assert.Contains(t, out, `("Week 1") to All Students`)

	out, err = execute(t, cfgPath, "", "quiz", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Week 1  active  to All Students  (2 questions")

	out, err = execute(t, cfgPath, "2\n1\n", "quiz", "take", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 2/2 (100%)")

	storageCfg, databaseCfg := storeConfig(t, cfgPath)
	s, closeStore, err := store.Open(context.Background(), storageCfg, databaseCfg)
	require.NoError(t, err)
	defer func() {
		_ = closeStore()
	}()
	quizzes, err := quiz.NewAssignments(s).List(context.Background())
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	results, err := quiz.NewResults(s).ForUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	_, err = execute(t, cfgPath, "", "quiz", "delete", "abc")
	assert.ErrorContains(t, err, `invalid quiz id "abc"`)

	_, err = execute(t, cfgPath, "", "quiz", "delete", "1")
	assert.ErrorContains(t, err, "quiz 1 does not exist")

	out, err = execute(t, cfgPath, "", "quiz", "delete", strconvID(quizzes[0].ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted quiz")

	out, err = execute(t, cfgPath, "", "quiz", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No assigned quizzes")
}

func TestQuizAssignCommand_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	emptyFile := filepath.Join(tmpDir, "empty.yml")
	require.NoError(t, os.WriteFile(emptyFile, []byte("questions: []\n"), 0644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing flags", args: []string{"quiz", "assign"}, wantErr: "required flag(s)"},
		{name: "empty question file", args: []string{"quiz", "assign", "--title", "Empty", "--file", emptyFile}, wantErr: "is empty"},
		{name: "missing question file", args: []string{"quiz", "assign", "--title", "Gone", "--file", filepath.Join(tmpDir, "nope.yml")}, wantErr: "quiz.LoadQuestionFile()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, cfgPath, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUserShowCommand(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	profile := learner.Profile{
		Username:  "alice",
		Level:     "Beginner A2",
		XP:        120,
		Streak:    2,
		Skills:    learner.DefaultSkills(),
		WeakAreas: []string{"articles"},
	}
	testutil.SeedCollection(t, filepath.Join(tmpDir, "data"), store.Users, []learner.Profile{profile})

	tests := []struct {
		name     string
		username string
		want     []string
	}{
		{name: "known learner", username: "alice", want: []string{"alice (Beginner A2)", "XP: 120  Streak: 2", "Weak areas: articles"}},
		{name: "unknown learner", username: "ghost", want: []string{"ghost (Beginner A1)", "No recent activity"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, cfgPath, "", "user", "show", tt.username)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	tmpDir := t.TempDir()
	validPath := testutil.SetupTestConfig(t, tmpDir)

	brokenPath := filepath.Join(tmpDir, "broken.yml")
	require.NoError(t, os.WriteFile(brokenPath, []byte("server:\n  port: [[[\n"), 0644))

	badFallbackPath := filepath.Join(tmpDir, "bad-fallback.yml")
	require.NoError(t, os.WriteFile(badFallbackPath, []byte("quiz:\n  fallback_file: /nonexistent/fallback.yml\n"), 0644))

	tests := []struct {
		name    string
		cfgPath string
		want    []string
		wantErr string
	}{
		{name: "valid config", cfgPath: validPath, want: []string{"Storage: file", "Fallback questions: 5", "All validations passed!"}},
		{name: "broken YAML", cfgPath: brokenPath, wantErr: "failed to load configuration"},
		{name: "missing fallback file", cfgPath: badFallbackPath, wantErr: "quiz.fallback_file must be an existing and readable file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.cfgPath, "", "validate")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}
