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
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/auth"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/dosage"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/stock"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/usecase"
	infrapdf "github.com/Tanmay-Jain0221/med-inventory/internal/infrastructure/pdf"
	"github.com/Tanmay-Jain0221/med-inventory/internal/infrastructure/postgres"
	httpRouter "github.com/Tanmay-Jain0221/med-inventory/internal/interfaces/http"
	"github.com/Tanmay-Jain0221/med-inventory/pkg/config"
	"github.com/Tanmay-Jain0221/med-inventory/pkg/logger"
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

	medicineRepo := postgres.NewMedicineRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	scheduleRepo := postgres.NewDosageScheduleRepository(pool)
	moveRepo := postgres.NewStockMoveRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewUseCase(auth.Config{
		Password:   cfg.Auth.Password,
		JWTSecret:  cfg.Auth.JWTSecret,
		ExpMinutes: cfg.Auth.Expiration,
		Issuer:     cfg.Auth.Issuer,
	})
	if authUC.Open() {
		log.Warn().Msg("APP_PASSWORD no configurado: el API queda abierto")
	}

	medicineUC := usecase.NewMedicineUseCase(medicineRepo)
	reportUC := usecase.NewReportUseCase(reportRepo, moveRepo, usecase.ReportConfig{
		ExpiryWindowDays: cfg.Report.ExpiryWindowDays,
		LowStockFactor:   cfg.Report.LowStockFactor,
	})
	receiveUC := stock.NewReceiveUseCase(txRunner, medicineRepo)
	adjustUC := stock.NewAdjustUseCase(txRunner)
	dosageRunUC := dosage.NewRunUseCase(txRunner, scheduleRepo, batchRepo, moveRepo, log)
	pdfGen := infrapdf.NewStockStatusGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // el PDF puede tardar más que los JSON
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Med Inventory API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		MedicineUC: medicineUC,
		ReportUC:   reportUC,
		ReceiveUC:  receiveUC,
		AdjustUC:   adjustUC,
		DosageRun:  dosageRunUC,
		PDFGen:     pdfGen,
		JWTSecret:  cfg.Auth.JWTSecret,
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
