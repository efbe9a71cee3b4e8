package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/report"
	"github.com/Veraticus/polyreview/internal/storage"
	"github.com/Veraticus/polyreview/internal/table"
	"github.com/Veraticus/polyreview/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv isolates a command invocation from the user's home, config and database.
type testEnv struct {
	dir    string
	dbPath string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{dir: dir, dbPath: filepath.Join(dir, "history.db")}

	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Setenv("POLYREVIEW_DATABASE_PATH", env.dbPath)
	t.Setenv("POLYREVIEW_LOGGING_LEVEL", "error")

	viper.Reset()
	cfgFile = ""
	t.Cleanup(viper.Reset)

	return env
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeEnriched(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, table.WriteEnriched(path, testutil.Header(), testutil.EnrichedReviews()))
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"run", "report", "dashboard", "history", "generate-data", "models", "auth", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersion(t *testing.T) {
	newTestEnv(t)

	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "polyreview dev")
}

func TestGenerateData(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "data", "reviews.csv")

	out, err := executeCommand(t, "generate-data", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 20 sample reviews")

	ds, err := table.LoadReviews(path, table.HintGenerateData)
	require.NoError(t, err)
	assert.Len(t, ds.Reviews, 20)
}

func TestRun_MissingInput(t *testing.T) {
	env := newTestEnv(t)
	missing := filepath.Join(env.dir, "nope.csv")

	_, err := executeCommand(t, "run", "--input", missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInputNotFound))

	var stderr bytes.Buffer
	printError(&stderr, err)
	assert.Contains(t, stderr.String(), missing)
	assert.Contains(t, stderr.String(), "polyreview generate-data")
}

func TestReport_MissingInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCommand(t, "report", "--input", filepath.Join(env.dir, "processed.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInputNotFound))

	var stderr bytes.Buffer
	printError(&stderr, err)
	assert.Contains(t, stderr.String(), "polyreview run")
}

func TestReport_JSON(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "processed.csv")
	writeEnriched(t, path)

	out, err := executeCommand(t, "report", "--input", path, "--format", "json")
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.NotNil(t, rep.Winner)
	assert.Equal(t, 102, rep.Winner.ProductID)
	assert.InDelta(t, 100.0, rep.Winner.PositivityRate, 0.001)
	assert.Equal(t, 5, rep.Summary.Total)
	require.Len(t, rep.Products, 3)
	assert.Equal(t, []int{102, 101, 103}, []int{rep.Products[0].ProductID, rep.Products[1].ProductID, rep.Products[2].ProductID})
}

func TestReport_TableNamesWinner(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "processed.csv")
	writeEnriched(t, path)

	out, err := executeCommand(t, "report", "--input", path)
	require.NoError(t, err)
	assert.Contains(t, out, "WINNER: Product 102 with 100% positive feedback")
}

func TestReport_LanguageFilter(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "processed.csv")
	writeEnriched(t, path)

	out, err := executeCommand(t, "report", "--input", path, "--format", "json", "--languages", "es")
	require.NoError(t, err)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 2, rep.Summary.Total)
	assert.Equal(t, []string{"es"}, rep.Languages)
}

func TestReport_UnknownFormat(t *testing.T) {
	newTestEnv(t)

	_, err := executeCommand(t, "report", "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, report.ErrUnknownFormat))
}

// seedRun stores the fixture rows as a finished run and returns its ID.
func seedRun(t *testing.T, env testEnv) string {
	t.Helper()
	db := testutil.SetupTestDB(t, env.dbPath)
	return db.SeedRun("reviews.csv", "processed.csv", testutil.EnrichedReviews()).ID
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCommand(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet")

	id := seedRun(t, env)

	out, err = executeCommand(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, shortID(id))
	assert.Contains(t, out, "finished")
	assert.Contains(t, out, "processed.csv")
}

func TestReport_FromHistory(t *testing.T) {
	env := newTestEnv(t)
	id := seedRun(t, env)

	tests := []struct {
		name      string
		run       string
		languages string
		wantTotal int
	}{
		{name: "latest", run: "latest", wantTotal: 5},
		{name: "id prefix", run: shortID(id), wantTotal: 5},
		{name: "language filter", run: "latest", languages: "es,de", wantTotal: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{"report", "--run", tt.run, "--format", "json"}
			if tt.languages != "" {
				args = append(args, "--languages", tt.languages)
			}

			out, err := executeCommand(t, args...)
			require.NoError(t, err)

			var rep report.Report
			require.NoError(t, json.Unmarshal([]byte(out), &rep))
			assert.Equal(t, tt.wantTotal, rep.Summary.Total)
			assert.Equal(t, "run "+shortID(id), rep.Source)
		})
	}
}

func TestReport_UnknownRun(t *testing.T) {
	env := newTestEnv(t)
	seedRun(t, env)

	_, err := executeCommand(t, "report", "--run", "zzzzzzzz")
	require.Error(t, err)
	assert.True(t, storage.IsNotFound(err))

	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, common.NewUserError("friendly message", errors.New("low level detail")))
	assert.Contains(t, buf.String(), "friendly message")
	assert.NotContains(t, buf.String(), "low level detail")

	buf.Reset()
	printError(&buf, errors.New("plain failure"))
	assert.Contains(t, buf.String(), "plain failure")
}
