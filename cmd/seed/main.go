// seed prepara una base nueva: aplica migraciones, crea el primer administrador
// y opcionalmente carga un catálogo de demostración.
//
// Uso:
//
//	go run ./cmd/seed migrate
//	go run ./cmd/seed admin --email admin@tienda.co --password secreto
//	go run ./cmd/seed demo
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/tienda-rfid-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-rfid-api/pkg/config"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
	"github.com/spf13/cobra"
)

// env estado compartido por los subcomandos.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func main() {
	e := &env{}
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Inicializa la base de datos de la tienda",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			e.pool = pool
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.pool != nil {
				e.pool.Close()
			}
		},
	}
	root.AddCommand(newMigrateCmd(e), newAdminCmd(e), newDemoCmd(e))

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return postgres.Migrate(cmd.Context(), e.pool, e.log)
		},
	}
}
