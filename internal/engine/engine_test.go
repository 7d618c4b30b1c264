package engine_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/runonce/internal/engine"
	"github.com/aqasim81/runonce/internal/ledger"
)

func TestNew_defaultOptions(t *testing.T) {
	t.Parallel()

	e := engine.New(nil, nil)

	require.NotNil(t, e)
}

func TestNew_withLogger(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := engine.New(nil, nil, engine.WithLogger(logger))

	require.NotNil(t, e)
}

func TestStatusConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "applied", engine.StatusApplied)
	assert.Equal(t, "skipped", engine.StatusSkipped)
	assert.Equal(t, "failed", engine.StatusFailed)
}

func TestResult_Failed(t *testing.T) {
	t.Parallel()

	assert.True(t, (&engine.Result{Status: engine.StatusFailed}).Failed())
	assert.False(t, (&engine.Result{Status: engine.StatusApplied}).Failed())
	assert.False(t, (&engine.Result{Status: engine.StatusSkipped}).Failed())
}

func TestStatementResult_fields(t *testing.T) {
	t.Parallel()

	sr := engine.StatementResult{
		Position: 1,
		SQL:      "ALTER TABLE t ADD COLUMN a INT",
		Status:   ledger.StatusFailure,
		SQLState: "42701",
		Detail:   `ERROR: column "a" of relation "t" already exists`,
	}

	assert.Equal(t, 1, sr.Position)
	assert.Equal(t, ledger.StatusFailure, sr.Status)
	assert.Equal(t, "42701", sr.SQLState)
}
