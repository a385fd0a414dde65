package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/catalogo-inventario/internal/application/usecase"
	httpRouter "github.com/jhoicas/catalogo-inventario/internal/interfaces/http"
	"github.com/jhoicas/catalogo-inventario/internal/migration"
	"github.com/jhoicas/catalogo-inventario/internal/migrations"
	"github.com/jhoicas/catalogo-inventario/internal/store"
	"github.com/jhoicas/catalogo-inventario/pkg/config"
	"github.com/jhoicas/catalogo-inventario/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Store: desde snapshot si hay ruta configurada, si no efímero en memoria.
	var st *store.Store
	if cfg.Store.SnapshotPath != "" {
		st, err = store.Load(cfg.Store.SnapshotPath, store.WithLogger(log))
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Store.SnapshotPath).Msg("cargar snapshot")
		}
	} else {
		st = store.New(store.WithLogger(log))
	}

	chain, err := migrations.Chain(migration.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("construir cadena de migraciones")
	}
	if cfg.Store.MigrateOnStart {
		if err := chain.Up(st); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
	}
	log.Info().Int("schema_version", st.Version()).Msg("store listo")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Catálogo de Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "schema_version": st.Version()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC: usecase.NewCategoryUseCase(st),
		SupplierUC: usecase.NewSupplierUseCase(st),
		ProductUC:  usecase.NewProductUseCase(st),
		CatalogUC:  usecase.NewCatalogUseCase(st),
		Chain:      chain,
		Store:      st,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("catálogo escuchando")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("apagar servidor")
	}
	if cfg.Store.SnapshotPath != "" {
		if err := st.Save(cfg.Store.SnapshotPath); err != nil {
			log.Error().Err(err).Msg("guardar snapshot")
		}
	}
}
