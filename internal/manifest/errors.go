package manifest

import "errors"

// ErrMissingKey indicates a manifest entry has no migration key.
var ErrMissingKey = errors.New("migration key is required")

// ErrNoStatements indicates a manifest entry yields no SQL statements.
var ErrNoStatements = errors.New("migration has no statements")

// ErrAmbiguousSource indicates an entry declares both inline statements and a script file.
var ErrAmbiguousSource = errors.New("declare either statements or file, not both")

// ErrDuplicateKey indicates the same migration key appears twice in a manifest.
var ErrDuplicateKey = errors.New("duplicate migration key")
