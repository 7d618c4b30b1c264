package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/aqasim81/runonce/internal/database"
	"github.com/aqasim81/runonce/internal/ledger"
)

// RunOnce applies the keyed migration unless a migration with the same key
// has already been recorded, in which case it is a no-op. Statement rows
// are created pending in input order, then executed serially, one in
// flight at a time; each transition is persisted as it happens. On the
// first statement failure the sequence halts and the remaining rows stay
// pending forever.
//
// The returned Result describes the outcome, including the loser's side of
// a concurrent creation race (reported as skipped). The error return is
// reserved for infrastructure failures that prevented the run/skip
// decision, such as a failed existence lookup.
func (e *Engine) RunOnce(ctx context.Context, key string, statements ...string) (*Result, error) {
	exists, err := e.ledger.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("checking migration %q: %w", key, err)
	}

	if exists {
		e.logger.Debug("migration already applied, skipping", "key", key)

		return &Result{Key: key, Status: StatusSkipped}, nil
	}

	migrationID, err := e.ledger.CreateMigration(ctx, key)
	if err != nil {
		if errors.Is(err, ledger.ErrMigrationExists) {
			// Lost the creation race to a concurrent caller. The unique
			// constraint guarantees exactly one row committed, so this
			// run is a no-op, same as finding the key up front.
			e.logger.Warn("migration created concurrently elsewhere, skipping", "key", key)

			return &Result{Key: key, Status: StatusSkipped}, nil
		}

		e.logger.Error("creating migration failed", "key", key, "error", err)

		return &Result{Key: key, Status: StatusFailed, Kind: FailureMigrationInsert, Err: err}, nil
	}

	results := pendingResults(statements)

	statementIDs, err := e.ledger.CreateStatements(ctx, migrationID, statements)
	if err != nil {
		e.logger.Error("creating statement rows failed",
			"key", key, "created", len(statementIDs), "total", len(statements), "error", err)

		return &Result{
			Key: key, Status: StatusFailed, Kind: FailureStatementInsert, Err: err,
			Statements: results,
		}, nil
	}

	for i, statementID := range statementIDs {
		execErr := e.execSQL(ctx, statements[i])
		if execErr == nil {
			if markErr := e.ledger.MarkSucceeded(ctx, statementID); markErr != nil {
				e.logger.Error("recording statement success failed",
					"key", key, "position", i, "error", markErr)

				return &Result{
					Key: key, Status: StatusFailed, Kind: FailureBookkeeping, Err: markErr,
					Statements: results,
				}, nil
			}

			results[i].Status = ledger.StatusSuccess

			continue
		}

		code, _ := database.SQLState(execErr)
		detail := database.ErrorDetail(execErr)

		if markErr := e.ledger.MarkFailed(ctx, statementID, code, detail); markErr != nil {
			e.logger.Error("recording statement failure failed",
				"key", key, "position", i, "error", markErr)

			return &Result{
				Key: key, Status: StatusFailed, Kind: FailureBookkeeping, Err: markErr,
				Statements: results,
			}, nil
		}

		results[i].Status = ledger.StatusFailure
		results[i].SQLState = code
		results[i].Detail = detail

		e.logger.Error("migration statement failed",
			"key", key, "position", i, "sqlstate", code, "error", execErr)

		return &Result{
			Key: key, Status: StatusFailed, Kind: FailureStatementExec, Err: execErr,
			Statements: results,
		}, nil
	}

	e.logger.Info("migration applied", "key", key, "statements", len(statements))

	return &Result{Key: key, Status: StatusApplied, Statements: results}, nil
}

// RunAll calls RunOnce for each migration in list order, waiting for each
// to finish before starting the next. A failed migration does not stop the
// list; its failure is reflected in its Result while later migrations
// still run. Infrastructure errors abort the sweep and return the results
// collected so far.
func (e *Engine) RunAll(ctx context.Context, migrations []Migration) ([]Result, error) {
	results := make([]Result, 0, len(migrations))

	for _, m := range migrations {
		res, err := e.RunOnce(ctx, m.Key, m.Statements...)
		if err != nil {
			return results, err
		}

		results = append(results, *res)
	}

	return results, nil
}
