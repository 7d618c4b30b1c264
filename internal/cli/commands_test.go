package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/runonce/internal/config"
	"github.com/aqasim81/runonce/internal/engine"
)

func TestRunRun_noDatabaseURL_returnsError(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	AppConfig = &config.Config{ManifestPath: "./testdata/migrations.yml"}

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	err := runRun(cmd, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDatabaseURLRequired)
}

func TestRunBootstrap_noDatabaseURL_returnsError(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	AppConfig = config.New()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	err := runBootstrap(cmd, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDatabaseURLRequired)
}

func TestRunStatus_noDatabaseURL_returnsError(t *testing.T) { //nolint:paralleltest // writes global AppConfig
	AppConfig = config.New()

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	err := runStatus(cmd, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDatabaseURLRequired)
}

func TestReportResults_mixedOutcomes(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	results := []engine.Result{
		{Key: "m1", Status: engine.StatusApplied, Statements: []engine.StatementResult{{}}},
		{Key: "m2", Status: engine.StatusSkipped},
		{Key: "m3", Status: engine.StatusFailed, Kind: engine.FailureStatementExec, Err: errors.New("boom")},
	}

	err := reportResults(buf, results)

	require.ErrorIs(t, err, errMigrationsFailed)
	assert.Contains(t, buf.String(), "m1: applied (1 statement(s))")
	assert.Contains(t, buf.String(), "m3: FAILED (statement_exec)")
	assert.Contains(t, buf.String(), "1 applied, 1 skipped, 1 failed")
}

func TestReportResults_allClean_returnsNil(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	results := []engine.Result{
		{Key: "m1", Status: engine.StatusApplied},
		{Key: "m2", Status: engine.StatusSkipped},
	}

	err := reportResults(buf, results)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 applied, 1 skipped, 0 failed")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestFirstLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SELECT 1", firstLine("SELECT 1"))
	assert.Equal(t, "CREATE TABLE t ( ...", firstLine("CREATE TABLE t (\n  id INT\n)"))
}

func TestRenderTable_writesHeaderAndRows(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	err := renderTable(
		[]string{"KEY", "STATUS"},
		[][]string{{"add_col", "success"}},
		buf,
	)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "KEY")
	assert.Contains(t, buf.String(), "add_col")
}
