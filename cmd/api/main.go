package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/instock-api/internal/application/auth"
	"github.com/jhoicas/instock-api/internal/application/inventory"
	"github.com/jhoicas/instock-api/internal/application/usecase"
	"github.com/jhoicas/instock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/instock-api/internal/infrastructure/postgres/migrations"
	httpRouter "github.com/jhoicas/instock-api/internal/interfaces/http"
	"github.com/jhoicas/instock-api/pkg/config"
	"github.com/jhoicas/instock-api/pkg/jwt"
	"github.com/jhoicas/instock-api/pkg/logger"
	"github.com/jhoicas/instock-api/pkg/password"
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

	if cfg.DB.Migrate {
		db := postgres.OpenDB(pool)
		if err := migrations.Migrate(ctx, db, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		_ = db.Close()
	}

	tokens, err := jwt.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración JWT")
	}
	hasher := password.NewHasher(cfg.Auth.BcryptCost)

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, hasher, tokens, log)
	userUC := usecase.NewUserUseCase(userRepo, hasher, log)
	productUC := usecase.NewProductUseCase(productRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, productRepo, movementRepo, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log, cfg.App.IsDevelopment()),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.ClientURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Swagger.Enabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "InStock API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Guard:         auth.NewGuard(tokens),
		AuthUC:        authUC,
		UserUC:        userUC,
		ProductUC:     productUC,
		Ledger:        ledgerUC,
		Replenishment: replenishmentUC,
		DB:            postgres.NewPinger(pool),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
