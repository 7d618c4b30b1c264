// Package script splits SQL scripts into individual statements using the
// real PostgreSQL parser, so semicolons inside string literals, dollar
// quoting, and comments are handled correctly.
package script

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Split parses the script and returns its statements in source order, each
// trimmed of surrounding whitespace and without the terminating semicolon.
// Empty or whitespace-only input yields zero statements.
func Split(sql string) ([]string, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, nil
	}

	tree, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parsing SQL script: %w", err)
	}

	statements := make([]string, 0, len(tree.Stmts))

	for _, raw := range tree.Stmts {
		start := int(raw.StmtLocation)

		end := start + int(raw.StmtLen)
		if raw.StmtLen == 0 {
			// The parser leaves stmt_len unset for the final statement.
			end = len(sql)
		}

		stmt := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sql[start:end]), ";"))
		if stmt == "" {
			continue
		}

		statements = append(statements, stmt)
	}

	return statements, nil
}
