//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqasim81/runonce/internal/ledger"
)

func TestEnsure_isIdempotent(t *testing.T) {
	pool := SetupPostgres(t)
	ctx := context.Background()
	l := ledger.New(pool)

	require.NoError(t, l.Ensure(ctx))
	require.NoError(t, l.Ensure(ctx))

	// Both tables exist and exactly one foreign key was added.
	fkCount := countRows(t, pool,
		`SELECT COUNT(*) FROM pg_constraint
		 WHERE conrelid = 'migration_statements'::regclass AND contype = 'f'`)
	assert.Equal(t, 1, fkCount)
}

func TestCreateMigration_duplicateKey_returnsErrMigrationExists(t *testing.T) {
	pool := SetupPostgres(t)
	ctx := context.Background()
	l := ledger.New(pool)
	require.NoError(t, l.Ensure(ctx))

	_, err := l.CreateMigration(ctx, "contested")
	require.NoError(t, err)

	_, err = l.CreateMigration(ctx, "contested")
	assert.ErrorIs(t, err, ledger.ErrMigrationExists)

	assert.Equal(t, 1, countRows(t, pool, `SELECT COUNT(*) FROM migrations`))
}

func TestCreateMigration_emptyKey_returnsErrEmptyKey(t *testing.T) {
	pool := SetupPostgres(t)
	ctx := context.Background()
	l := ledger.New(pool)
	require.NoError(t, l.Ensure(ctx))

	for _, key := range []string{"", "   ", "\t\n"} {
		_, err := l.CreateMigration(ctx, key)
		assert.ErrorIs(t, err, ledger.ErrEmptyKey)
	}

	// Blank keys are normalized to NULL, never stored as "".
	assert.Equal(t, 0, countRows(t, pool, `SELECT COUNT(*) FROM migrations`))
}

func TestCreateMigration_whitespaceTrimmedBeforeStorage(t *testing.T) {
	pool := SetupPostgres(t)
	ctx := context.Background()
	l := ledger.New(pool)
	require.NoError(t, l.Ensure(ctx))

	_, err := l.CreateMigration(ctx, "  spaced_key \n")
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, pool,
		`SELECT COUNT(*) FROM migrations WHERE migration_key = $1`, "spaced_key"))

	exists, err := l.Exists(ctx, "spaced_key")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCascadeDelete_removesStatements(t *testing.T) {
	pool := SetupPostgres(t)
	ctx := context.Background()
	l := ledger.New(pool)
	require.NoError(t, l.Ensure(ctx))

	id, err := l.CreateMigration(ctx, "doomed")
	require.NoError(t, err)

	_, err = l.CreateStatements(ctx, id, []string{"SELECT 1", "SELECT 2"})
	require.NoError(t, err)
	require.Equal(t, 2, countRows(t, pool, `SELECT COUNT(*) FROM migration_statements`))

	_, err = pool.Exec(ctx, `DELETE FROM migrations WHERE id = $1`, id)
	require.NoError(t, err)

	assert.Equal(t, 0, countRows(t, pool, `SELECT COUNT(*) FROM migration_statements`))
}

func TestStatements_preserveCreationOrderAndTransitions(t *testing.T) {
	pool := SetupPostgres(t)
	ctx := context.Background()
	l := ledger.New(pool)
	require.NoError(t, l.Ensure(ctx))

	id, err := l.CreateMigration(ctx, "ordered")
	require.NoError(t, err)

	ids, err := l.CreateStatements(ctx, id, []string{"SELECT 1", "SELECT 2", "SELECT 3"})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	require.NoError(t, l.MarkSucceeded(ctx, ids[0]))
	require.NoError(t, l.MarkFailed(ctx, ids[1], "42601", "ERROR: syntax error"))

	statements, err := l.Statements(ctx, id)
	require.NoError(t, err)
	require.Len(t, statements, 3)

	assert.Equal(t, "SELECT 1", statements[0].SQL)
	assert.Equal(t, ledger.StatusSuccess, statements[0].Status)
	assert.Nil(t, statements[0].ErrorCode)

	assert.Equal(t, ledger.StatusFailure, statements[1].Status)
	require.NotNil(t, statements[1].ErrorCode)
	assert.Equal(t, "42601", *statements[1].ErrorCode)
	require.NotNil(t, statements[1].ErrorInfo)
	assert.Contains(t, *statements[1].ErrorInfo, "syntax error")

	assert.Equal(t, ledger.StatusPending, statements[2].Status)
}
