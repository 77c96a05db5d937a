package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/retailflow-api/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/retailflow-api/pkg/config"
	"github.com/jhoicas/retailflow-api/pkg/logger"
	"github.com/jhoicas/retailflow-api/pkg/migrate"
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migraciones del esquema de RetailFlow (goose, SQL embebido)",
}

func main() {
	rootCmd.AddCommand(
		gooseCmd("up", "Aplica todas las migraciones pendientes"),
		gooseCmd("down", "Revierte la última migración"),
		gooseCmd("status", "Muestra el estado de cada migración"),
		versionCmd(),
	)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func gooseCmd(command, short string) *cobra.Command {
	return &cobra.Command{
		Use:   command,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), command, func(ctx context.Context, db *sql.DB) error {
				return migrate.Run(ctx, db, migrations.FS, command)
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version [target]",
		Short: "Sin argumento muestra la versión actual; con argumento sube o baja hasta esa versión",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), "version", func(ctx context.Context, db *sql.DB) error {
				if len(args) == 0 {
					return migrate.Run(ctx, db, migrations.FS, "version")
				}
				return migrate.MigrateToVersion(ctx, db, migrations.FS, strings.TrimSpace(args[0]))
			})
		},
	}
}

// withDB carga la configuración, abre la base y ejecuta fn.
func withDB(ctx context.Context, command string, fn func(ctx context.Context, db *sql.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	db, err := migrate.Open(ctx, cfg.DB.ConnectionString())
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return err
	}
	defer db.Close()

	log.Info().Str("cmd", command).Str("env", cfg.App.Env).Msg("migrate listo")
	if err := fn(ctx, db); err != nil {
		log.Error().Err(err).Str("cmd", command).Msg("migración fallida")
		return err
	}
	log.Info().Str("cmd", command).Msg("migración terminada")
	return nil
}
