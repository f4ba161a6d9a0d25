package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/auth"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/dosage"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/stock"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/usecase"
	"github.com/Tanmay-Jain0221/med-inventory/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	MedicineUC *usecase.MedicineUseCase
	ReportUC   *usecase.ReportUseCase
	ReceiveUC  *stock.ReceiveUseCase
	AdjustUC   *stock.AdjustUseCase
	DosageRun  *dosage.RunUseCase
	PDFGen     *pdf.StockStatusGenerator
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Sin contraseña configurada el API queda abierto (modo del dashboard original).
	protected := api.Group("/")
	if !deps.AuthUC.Open() {
		protected = api.Group("/", AuthMiddleware(deps.JWTSecret))
	}

	// Medicines
	medicines := protected.Group("/medicines")
	medicineHandler := NewMedicineHandler(deps.MedicineUC)
	medicines.Get("/", medicineHandler.List)
	medicines.Get("/:id", medicineHandler.GetByID)

	// Reports + consultas de stock
	reportHandler := NewReportHandler(deps.ReportUC, deps.PDFGen)
	reports := protected.Group("/reports")
	reports.Get("/overview", reportHandler.GetOverview)
	reports.Get("/low-stock", reportHandler.GetLowStock)
	reports.Get("/expiring", reportHandler.GetExpiring)
	reports.Get("/stock-status.pdf", reportHandler.GetStockStatusPDF)
	protected.Get("/batches", reportHandler.GetBatches)
	protected.Get("/moves", reportHandler.GetMoves)

	// Acciones de stock
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.ReceiveUC, deps.AdjustUC)
	stockGroup.Post("/receipts", stockHandler.Receive)
	stockGroup.Post("/adjustments", stockHandler.Adjust)

	// Corrida de dosis diaria
	dosageHandler := NewDosageHandler(deps.DosageRun)
	protected.Post("/dosage/runs", dosageHandler.Run)
}
