package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aqasim81/runonce/internal/engine"
	"github.com/aqasim81/runonce/internal/ledger"
)

var bootstrapCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "bootstrap",
	Short: "Create the bookkeeping schema",
	Long: `Ensure the migrations and migration_statements tables and their
cascade foreign key exist. Idempotent; the run command also does this
implicitly before its first migration.`,
	RunE: runBootstrap,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
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

	eng := engine.New(pool, ledger.New(pool))

	if err := eng.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrapping bookkeeping schema: %w", err)
	}

	fmt.Fprintln(out, "Bookkeeping schema ready.")

	return nil
}
