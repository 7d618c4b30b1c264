package engine

import "github.com/aqasim81/runonce/internal/ledger"

// Migration pairs an idempotency key with its ordered SQL statements.
type Migration struct {
	Key        string
	Statements []string
}

// Run outcome status values.
const (
	StatusApplied = "applied"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// FailureKind classifies where a failed run stopped.
type FailureKind string

// Failure kinds reported in Result.Kind.
const (
	FailureNone            FailureKind = ""
	FailureMigrationInsert FailureKind = "migration_insert"
	FailureStatementInsert FailureKind = "statement_insert"
	FailureStatementExec   FailureKind = "statement_exec"
	FailureBookkeeping     FailureKind = "bookkeeping"
)

// StatementResult mirrors one statement row's outcome. Statements after a
// failure stay pending, marking where the sequence halted.
type StatementResult struct {
	Position int
	SQL      string
	Status   string
	SQLState string
	Detail   string
}

// Result describes the outcome of one RunOnce call. The persisted ledger
// rows carry the same information; Result exists so callers can inspect
// the outcome without querying the bookkeeping tables.
type Result struct {
	Key        string
	Status     string
	Kind       FailureKind
	Err        error
	Statements []StatementResult
}

// Failed reports whether the run stopped on a failure.
func (r *Result) Failed() bool {
	return r.Status == StatusFailed
}

// pendingResults initializes one pending StatementResult per SQL text.
func pendingResults(statements []string) []StatementResult {
	results := make([]StatementResult, len(statements))
	for i, sql := range statements {
		results[i] = StatementResult{Position: i, SQL: sql, Status: ledger.StatusPending}
	}

	return results
}
