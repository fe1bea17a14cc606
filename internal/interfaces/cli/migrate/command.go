package migrate

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"licenseguard/internal/infrastructure/migration"
	"licenseguard/internal/interfaces/cli/cliutil"
)

var (
	env   string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage the licenseguard schema: apply, roll back, force a version and report status.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newForceCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newForceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "force VERSION",
		Short: "Force the recorded migration version",
		Long:  `Set the recorded schema version without running migrations. Used to recover from a dirty state.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runForce,
	}
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, log, db, cleanup, err := cliutil.InitWithDatabase(cliutil.ResolveEnv(env))
	if err != nil {
		return err
	}
	defer cleanup()

	log.Infow("running up migrations", "environment", env)
	if err := migration.NewManager(&cfg.Database).Up(db); err != nil {
		log.Errorw("migration failed", "error", err)
		return err
	}
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	cfg, log, db, cleanup, err := cliutil.InitWithDatabase(cliutil.ResolveEnv(env))
	if err != nil {
		return err
	}
	defer cleanup()

	log.Infow("running down migrations", "environment", env, "steps", steps)
	if err := migration.NewManager(&cfg.Database).Down(db, steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, _, db, cleanup, err := cliutil.InitWithDatabase(cliutil.ResolveEnv(env))
	if err != nil {
		return err
	}
	defer cleanup()

	mgr := migration.NewManager(&cfg.Database)
	status, err := mgr.Status(db)
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment: %s\n", env)
	fmt.Fprintf(out, "  Strategy:    %s\n", mgr.StrategyName())
	fmt.Fprintf(out, "  Status:      %s\n", status)
	return nil
}

func runForce(cmd *cobra.Command, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", args[0], err)
	}

	cfg, log, db, cleanup, err := cliutil.InitWithDatabase(cliutil.ResolveEnv(env))
	if err != nil {
		return err
	}
	defer cleanup()

	if err := migration.NewManager(&cfg.Database).Force(db, version); err != nil {
		return fmt.Errorf("force failed: %w", err)
	}

	log.Infow("migration version forced", "version", version)
	return nil
}
