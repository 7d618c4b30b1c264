package engine

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Ledger abstracts the bookkeeping operations for testability.
type Ledger interface {
	Ensure(ctx context.Context) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateMigration(ctx context.Context, key string) (int64, error)
	CreateStatements(ctx context.Context, migrationID int64, sqls []string) ([]int64, error)
	MarkSucceeded(ctx context.Context, statementID int64) error
	MarkFailed(ctx context.Context, statementID int64, code, info string) error
}

// execFunc executes a single SQL statement.
type execFunc func(ctx context.Context, sql string) error

// Engine applies uniquely-keyed migrations exactly once, recording every
// state transition in the ledger so interrupted runs leave an inspectable
// trail. All operations go through the connection pool and ledger the
// engine was constructed with; there is no ambient state.
type Engine struct {
	pool    *pgxpool.Pool
	ledger  Ledger
	logger  *slog.Logger
	execSQL execFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for operator-visible diagnostics.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine with the given pool and ledger.
func New(pool *pgxpool.Pool, l Ledger, opts ...Option) *Engine {
	e := &Engine{
		pool:   pool,
		ledger: l,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	// Default for the injectable exec function, set after options so
	// internal tests can override it.
	if e.execSQL == nil {
		e.execSQL = e.executeStatement
	}

	return e
}

// Bootstrap ensures the bookkeeping schema and its cascade foreign key
// exist. Idempotent; must complete before RunOnce or RunAll is called.
func (e *Engine) Bootstrap(ctx context.Context) error {
	if err := e.ledger.Ensure(ctx); err != nil {
		e.logger.Error("bootstrap failed", "error", err)

		return err
	}

	return nil
}

// executeStatement sends the SQL text to the database exactly as given:
// no parameter binding, no escaping, no transaction, no retry. Callers
// are responsible for safe SQL construction.
func (e *Engine) executeStatement(ctx context.Context, sql string) error {
	_, err := e.pool.Exec(ctx, sql)

	return err
}
