package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aqasim81/runonce/internal/ledger"
)

var statusCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "status",
	Short: "Show recorded migrations and statement outcomes",
	Long: `Display every recorded migration with the status, SQLSTATE, and SQL
text of each of its statements. A pending statement after a failure marks
where that migration's sequence halted.`,
	RunE: runStatus,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	pool, err := connectDB(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer pool.Close()

	l := ledger.New(pool)

	migrations, err := l.Migrations(ctx)
	if err != nil {
		return fmt.Errorf("listing migrations: %w", err)
	}

	if len(migrations) == 0 {
		fmt.Fprintln(out, "No migrations recorded.")
		return nil
	}

	rows := make([][]string, 0, len(migrations))

	for _, m := range migrations {
		statements, err := l.Statements(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("listing statements for %q: %w", m.Key, err)
		}

		if len(statements) == 0 {
			rows = append(rows, []string{m.Key, "-", "-", "", ""})
			continue
		}

		for _, s := range statements {
			code := ""
			if s.ErrorCode != nil {
				code = *s.ErrorCode
			}

			rows = append(rows, []string{
				m.Key,
				strconv.Itoa(s.Position),
				s.Status,
				code,
				firstLine(s.SQL),
			})
		}
	}

	if err := renderTable([]string{"KEY", "POS", "STATUS", "SQLSTATE", "STATEMENT"}, rows, out); err != nil {
		return fmt.Errorf("rendering status table: %w", err)
	}

	return nil
}

// firstLine keeps the table readable for multi-line statements; the full
// text stays in the sql_statement column.
func firstLine(sql string) string {
	line, _, found := strings.Cut(sql, "\n")
	if found {
		return line + " ..."
	}

	return line
}
