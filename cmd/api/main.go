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

	"github.com/jhoicas/clinica-stock/internal/application/auth"
	appstock "github.com/jhoicas/clinica-stock/internal/application/stock"
	"github.com/jhoicas/clinica-stock/internal/application/usecase"
	infrapdf "github.com/jhoicas/clinica-stock/internal/infrastructure/pdf"
	"github.com/jhoicas/clinica-stock/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/clinica-stock/internal/interfaces/http"
	"github.com/jhoicas/clinica-stock/pkg/config"
	"github.com/jhoicas/clinica-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	itemRepo := postgres.NewItemRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockCfg := appstock.Config{
		DefaultUnitCost:  cfg.Stock.DefaultUnitCost,
		NearExpiryDays:   cfg.Stock.NearExpiryDays,
		ExportCodePrefix: cfg.Stock.ExportCodePrefix,
		ImportCodePrefix: cfg.Stock.ImportCodePrefix,
	}

	itemUC := usecase.NewItemUseCase(itemRepo, unitRepo, batchRepo)
	exportUC := appstock.NewExportUseCase(txRunner, itemRepo, unitRepo, employeeRepo, stockCfg)
	importUC := appstock.NewImportUseCase(txRunner, itemRepo, unitRepo, supplierRepo, stockCfg)
	queryUC := appstock.NewQueryUseCase(itemRepo, unitRepo, batchRepo, txRepo, stockCfg)

	voucherGenerator := infrapdf.NewMarotoVoucherGenerator(cfg.App.Name)
	voucherUC := appstock.NewVoucherUseCase(queryUC, voucherGenerator)

	authUC := auth.NewAuthUseCase(employeeRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Clínica Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:    itemUC,
		ExportUC:  exportUC,
		ImportUC:  importUC,
		QueryUC:   queryUC,
		VoucherUC: voucherUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
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
