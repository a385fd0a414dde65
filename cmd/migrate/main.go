// El CLI de migraciones es la única vía sancionada para alterar el esquema
// del catálogo: carga el snapshot, aplica o revierte pasos en secuencia
// estricta y vuelve a persistir el estado.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/catalogo-inventario/internal/migration"
	"github.com/jhoicas/catalogo-inventario/internal/migrations"
	"github.com/jhoicas/catalogo-inventario/internal/store"
	"github.com/jhoicas/catalogo-inventario/pkg/config"
	"github.com/jhoicas/catalogo-inventario/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var snapshotPath string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Aplica o revierte las migraciones del catálogo de inventario",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "ruta del snapshot (por defecto STORE_SNAPSHOT_PATH)")

	run := func(fn func(chain *migration.Chain, st *store.Store) (dirty bool, err error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			path := snapshotPath
			if path == "" {
				path = cfg.Store.SnapshotPath
			}
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

			st, err := store.Load(path, store.WithLogger(log))
			if err != nil {
				return err
			}
			chain, err := migrations.Chain(migration.WithLogger(log))
			if err != nil {
				return err
			}
			dirty, err := fn(chain, st)
			if err != nil {
				return err
			}
			if dirty && path != "" {
				return st.Save(path)
			}
			return nil
		}
	}

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica todos los pasos pendientes",
		RunE: run(func(chain *migration.Chain, st *store.Store) (bool, error) {
			return true, chain.Up(st)
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revierte exactamente un paso",
		RunE: run(func(chain *migration.Chain, st *store.Store) (bool, error) {
			return true, chain.Down(st)
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "to <version>",
		Short: "Lleva el esquema a la versión indicada (aplicando o revirtiendo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("versión inválida %q", args[0])
			}
			return run(func(chain *migration.Chain, st *store.Store) (bool, error) {
				return true, chain.MigrateTo(st, target)
			})(cmd, nil)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Muestra la versión actual y los pasos pendientes",
		RunE: run(func(chain *migration.Chain, st *store.Store) (bool, error) {
			s := chain.Status(st)
			fmt.Printf("versión actual: %d de %d\n", s.CurrentVersion, s.TotalSteps)
			for _, step := range chain.Steps() {
				state := "aplicada"
				if step.Version > s.CurrentVersion {
					state = "pendiente"
				}
				fmt.Printf("  %04d %-22s %s\n", step.Version, step.Name, state)
			}
			return false, nil
		}),
	})

	return root
}
