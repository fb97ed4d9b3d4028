package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/andromeda-crm/internal/infrastructure/postgres"
	"github.com/jhoicas/andromeda-crm/pkg/config"
	"github.com/jhoicas/andromeda-crm/pkg/logger"
)

func migrateCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		Long: `Aplica las migraciones SQL embebidas que aún no figuran en schema_migrations.

Varias instancias pueden ejecutarlo a la vez: un advisory lock las serializa.

Ejemplos:
  crmctl migrate
  crmctl migrate --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				migrations, err := postgres.Migrations()
				if err != nil {
					return err
				}
				for _, m := range migrations {
					fmt.Fprintln(cmd.OutOrStdout(), m.Version)
				}
				return nil
			}
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool) error {
				applied, err := postgres.Migrate(ctx, pool)
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "sin migraciones pendientes")
					return nil
				}
				for _, v := range applied {
					fmt.Fprintln(cmd.OutOrStdout(), "aplicada", v)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "lista las migraciones embebidas sin conectarse")
	return cmd
}

// withPool carga la configuración, abre el pool y lo cierra al terminar fn.
func withPool(ctx context.Context, fn func(context.Context, *pgxpool.Pool) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.LogLevel, Service: "crmctl"})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	return fn(ctx, pool)
}
