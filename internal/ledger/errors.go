package ledger

import "errors"

// ErrMigrationExists indicates another caller already committed a migration
// row for the same key. Losers of a concurrent creation race receive this
// so they can treat the outcome as a no-op rather than an anomaly.
var ErrMigrationExists = errors.New("migration key already exists")

// ErrEmptyKey indicates the migration key normalized to an absent value and
// was rejected by the not-null constraint.
var ErrEmptyKey = errors.New("migration key is empty")

// ErrSchemaCreation indicates the bookkeeping tables could not be created.
var ErrSchemaCreation = errors.New("creating bookkeeping schema")
