package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/mercado-api/internal/application/cart"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/jhoicas/mercado-api/internal/infrastructure/localstore"
	"github.com/jhoicas/mercado-api/internal/infrastructure/natsstan"
	"github.com/jhoicas/mercado-api/internal/infrastructure/notify"
	"github.com/jhoicas/mercado-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/mercado-api/internal/interfaces/http"
	"github.com/jhoicas/mercado-api/pkg/config"
	"github.com/jhoicas/mercado-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Canal push del carrito sincronizado (opcional; sin él los carritos
	// autenticados persisten igual pero sin sincronización entre dispositivos)
	var feed repository.CartFeed
	if cfg.NATS.Enabled {
		natsFeed, err := natsstan.Connect(natsstan.Config{
			ClusterID:     cfg.NATS.ClusterID,
			ClientID:      cfg.NATS.ClientID,
			URL:           cfg.NATS.URL,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
		}, log.Component("natsstan"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a NATS Streaming")
		}
		defer natsFeed.Close()
		feed = natsFeed
	}

	remoteRepo := postgres.NewCartRepository(pool)
	localRepo := localstore.New()
	gateway := cart.NewDualGateway(remoteRepo, feed, localRepo, log.Component("gateway"))
	notifier := notify.New(log.Component("notify"))
	cartManager := cart.NewManager(gateway, notifier)
	defer cartManager.Close()

	productRepo := postgres.NewProductRepository(pool)
	productUC := usecase.NewProductUseCase(productRepo)

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
		Title:    "Mercado API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CartManager: cartManager,
		ProductUC:   productUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando aplicación")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor HTTP")
	}
}
