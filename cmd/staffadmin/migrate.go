package main

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/staffkit/staff-admin/internal/config"
	"github.com/staffkit/staff-admin/internal/observability"
	"github.com/staffkit/staff-admin/internal/persistence"
)

const dsnFlag = "dsn"

var migrateFlags = map[string]cobraflags.Flag{
	dsnFlag: &cobraflags.StringFlag{
		Name:  dsnFlag,
		Value: "",
		Usage: "PostgreSQL DSN; defaults to POSTGRES_DSN",
	},
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations and exit",
		RunE:  runMigrate,
	}
	cobraflags.RegisterMap(cmd, migrateFlags)
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dsn := migrateFlags[dsnFlag].GetString(); dsn != "" {
		cfg.Postgres.DSN = dsn
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	return persistence.RunMigrations(cmd.Context(), pg.Pool, logger)
}
