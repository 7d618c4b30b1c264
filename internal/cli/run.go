package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/aqasim81/runonce/internal/config"
	"github.com/aqasim81/runonce/internal/database"
	"github.com/aqasim81/runonce/internal/engine"
	"github.com/aqasim81/runonce/internal/ledger"
	"github.com/aqasim81/runonce/internal/manifest"
)

// errDatabaseURLRequired is returned when no database URL is configured.
var errDatabaseURLRequired = errors.New(
	"database URL is required (set --database-url, RUNONCE_DATABASE_URL, or database_url in config)",
)

// errMigrationsFailed is returned when at least one migration in the sweep failed.
var errMigrationsFailed = errors.New("one or more migrations failed")

var runCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "run",
	Short: "Run manifest migrations that have not run yet",
	Long: `Run every migration from the manifest whose key has not been recorded.
Already-recorded keys are skipped; a failed statement halts its own
migration but never blocks the rest of the manifest.`,
	RunE: runRun,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	entries, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}

	out := cmd.OutOrStdout()

	if len(entries) == 0 {
		fmt.Fprintln(out, "No migrations in manifest.")
		return nil
	}

	ctx := commandContext(cmd)

	pool, err := connectDB(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer pool.Close()

	eng := engine.New(pool, ledger.New(pool))

	if err := eng.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrapping bookkeeping schema: %w", err)
	}

	migrations := make([]engine.Migration, 0, len(entries))
	for _, e := range entries {
		migrations = append(migrations, engine.Migration{Key: e.Key, Statements: e.Statements})
	}

	results, err := eng.RunAll(ctx, migrations)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return reportResults(out, results)
}

// reportResults prints one line per migration and a summary, returning
// errMigrationsFailed if any migration failed.
func reportResults(out io.Writer, results []engine.Result) error {
	applied := 0
	skipped := 0
	failed := 0

	for i := range results {
		res := &results[i]

		switch res.Status {
		case engine.StatusApplied:
			fmt.Fprintf(out, "  %s: applied (%d statement(s))\n", res.Key, len(res.Statements))
			applied++
		case engine.StatusSkipped:
			skipped++
		case engine.StatusFailed:
			fmt.Fprintf(out, "  %s: FAILED (%s)\n", res.Key, res.Kind)
			fmt.Fprintf(out, "    Error: %v\n", res.Err)
			failed++
		}
	}

	fmt.Fprintf(out, "\nRun complete: %d applied, %d skipped, %d failed.\n", applied, skipped, failed)

	if failed > 0 {
		return errMigrationsFailed
	}

	return nil
}

func connectDB(ctx context.Context, cfg *config.Config, out io.Writer) (*pgxpool.Pool, error) {
	fmt.Fprintf(out, "Connecting to %s\n", config.RedactURL(cfg.DatabaseURL))

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return pool, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
