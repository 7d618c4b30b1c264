package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aqasim81/runonce/internal/database"
)

// Statement status values. A statement starts pending and transitions
// exactly once to a terminal state.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Migration represents a row of the migrations table.
type Migration struct {
	ID  int64
	Key string
}

// Statement represents a row of the migration_statements table.
// ErrorCode and ErrorInfo are nil unless Status is "failure".
type Statement struct {
	ID          int64
	MigrationID int64
	Position    int
	SQL         string
	Status      string
	ErrorCode   *string
	ErrorInfo   *string
}

// Ledger manages the bookkeeping tables that record which migrations
// have run and with what outcome.
type Ledger struct {
	pool *pgxpool.Pool
}

// New creates a Ledger backed by the given connection pool.
func New(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// NormalizeKey trims the key and converts empty or blank strings to nil,
// so they hit the not-null constraint instead of being stored as "".
func NormalizeKey(key string) *string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

// Ensure creates both bookkeeping tables if absent, then adds the
// statement-to-migration cascade foreign key unless the catalog shows a
// foreign key already present on migration_statements. Safe to call on
// every process start; returns only after the constraint step completes.
func (l *Ledger) Ensure(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, createMigrationsSQL); err != nil {
		return fmt.Errorf("%w: migrations: %w", ErrSchemaCreation, err)
	}

	if _, err := l.pool.Exec(ctx, createStatementsSQL); err != nil {
		return fmt.Errorf("%w: migration_statements: %w", ErrSchemaCreation, err)
	}

	var hasConstraint bool
	if err := l.pool.QueryRow(ctx, foreignKeyExistsSQL).Scan(&hasConstraint); err != nil {
		return fmt.Errorf("checking statement foreign key: %w", err)
	}

	if !hasConstraint {
		if _, err := l.pool.Exec(ctx, addForeignKeySQL); err != nil {
			return fmt.Errorf("adding statement foreign key: %w", err)
		}
	}

	return nil
}

// Exists checks whether a migration row with the normalized key is present.
// Keys that normalize to nil can never match a stored row.
func (l *Ledger) Exists(ctx context.Context, key string) (bool, error) {
	normalized := NormalizeKey(key)
	if normalized == nil {
		return false, nil
	}

	var exists bool

	err := l.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM migrations WHERE migration_key = $1)`,
		*normalized,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking migration %q: %w", *normalized, err)
	}

	return exists, nil
}

// CreateMigration inserts a migration row for the normalized key and
// returns its id. A unique-constraint violation maps to ErrMigrationExists;
// a not-null violation (empty key) maps to ErrEmptyKey.
func (l *Ledger) CreateMigration(ctx context.Context, key string) (int64, error) {
	var id int64

	err := l.pool.QueryRow(ctx,
		`INSERT INTO migrations (migration_key) VALUES ($1) RETURNING id`,
		NormalizeKey(key),
	).Scan(&id)
	if err != nil {
		if database.IsSQLState(err, database.SQLStateUniqueViolation) {
			return 0, fmt.Errorf("migration %q: %w", key, ErrMigrationExists)
		}

		if database.IsSQLState(err, database.SQLStateNotNullViolation) {
			return 0, ErrEmptyKey
		}

		return 0, fmt.Errorf("creating migration %q: %w", key, err)
	}

	return id, nil
}

// CreateStatements inserts one pending statement row per SQL text, strictly
// in input order. On the first insert failure the remaining creations are
// abandoned; the ids created so far are returned alongside the error.
func (l *Ledger) CreateStatements(ctx context.Context, migrationID int64, sqls []string) ([]int64, error) {
	ids := make([]int64, 0, len(sqls))

	for i, sql := range sqls {
		var id int64

		err := l.pool.QueryRow(ctx,
			`INSERT INTO migration_statements (migration_id, position, sql_statement)
			 VALUES ($1, $2, $3) RETURNING id`,
			migrationID, i, sql,
		).Scan(&id)
		if err != nil {
			return ids, fmt.Errorf("creating statement %d for migration %d: %w", i, migrationID, err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// MarkSucceeded transitions a statement row from pending to success.
func (l *Ledger) MarkSucceeded(ctx context.Context, statementID int64) error {
	_, err := l.pool.Exec(ctx,
		`UPDATE migration_statements SET status = $1 WHERE id = $2`,
		StatusSuccess, statementID,
	)
	if err != nil {
		return fmt.Errorf("marking statement %d succeeded: %w", statementID, err)
	}

	return nil
}

// MarkFailed transitions a statement row from pending to failure, recording
// the driver-reported SQLSTATE and full error description.
func (l *Ledger) MarkFailed(ctx context.Context, statementID int64, code, info string) error {
	_, err := l.pool.Exec(ctx,
		`UPDATE migration_statements SET status = $1, error_code = $2, error_info = $3 WHERE id = $4`,
		StatusFailure, code, info, statementID,
	)
	if err != nil {
		return fmt.Errorf("marking statement %d failed: %w", statementID, err)
	}

	return nil
}

// Migrations returns all migration rows ordered by id.
func (l *Ledger) Migrations(ctx context.Context) ([]Migration, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, migration_key FROM migrations ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying migrations: %w", err)
	}
	defer rows.Close()

	migrations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Migration, error) {
		var m Migration
		if scanErr := row.Scan(&m.ID, &m.Key); scanErr != nil {
			return Migration{}, fmt.Errorf("scanning migration row: %w", scanErr)
		}

		return m, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning migrations: %w", err)
	}

	return migrations, nil
}

// Statements returns the statement rows for a migration in creation order.
func (l *Ledger) Statements(ctx context.Context, migrationID int64) ([]Statement, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, migration_id, position, sql_statement, status, error_code, error_info
		 FROM migration_statements
		 WHERE migration_id = $1
		 ORDER BY position`,
		migrationID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying statements for migration %d: %w", migrationID, err)
	}
	defer rows.Close()

	statements, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Statement, error) {
		var s Statement
		if scanErr := row.Scan(&s.ID, &s.MigrationID, &s.Position, &s.SQL, &s.Status, &s.ErrorCode, &s.ErrorInfo); scanErr != nil {
			return Statement{}, fmt.Errorf("scanning statement row: %w", scanErr)
		}

		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning statements: %w", err)
	}

	return statements, nil
}
