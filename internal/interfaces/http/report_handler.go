package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/dto"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/usecase"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
	"github.com/Tanmay-Jain0221/med-inventory/internal/infrastructure/pdf"
)

// ReportHandler expone los reportes del dashboard (solo lectura).
type ReportHandler struct {
	uc  *usecase.ReportUseCase
	gen *pdf.StockStatusGenerator
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase, gen *pdf.StockStatusGenerator) *ReportHandler {
	return &ReportHandler{uc: uc, gen: gen}
}

// GetOverview godoc
// @Summary      Métricas generales del inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OverviewDTO
// @Router       /api/reports/overview [get]
func (h *ReportHandler) GetOverview(c *fiber.Ctx) error {
	overview, err := h.uc.GetOverview(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(overview)
}

// GetLowStock godoc
// @Summary      Medicamentos con stock bajo
// @Description  Con ?alerts=true restringe al plan diario bajo el umbral de
//
//	alerta temprana e incluye los días de cobertura.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        alerts  query  bool  false  "solo alertas tempranas"
// @Success      200  {array}  dto.LowStockDTO
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	var (
		items []dto.LowStockDTO
		err   error
	)
	if c.QueryBool("alerts") {
		items, err = h.uc.GetLowStockAlerts(c.Context())
	} else {
		items, err = h.uc.GetLowStock(c.Context())
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// GetExpiring godoc
// @Summary      Lotes por vencer dentro de la ventana configurada
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ExpiringBatchDTO
// @Router       /api/reports/expiring [get]
func (h *ReportHandler) GetExpiring(c *fiber.Ctx) error {
	items, err := h.uc.GetExpiring(c.Context(), time.Now().UTC().Truncate(24*time.Hour))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// GetBatches godoc
// @Summary      Existencias por lote en orden FEFO
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        medicine_id  query  string  false  "filtrar por medicamento"
// @Param        in_stock     query  bool    false  "solo lotes con cantidad > 0"
// @Success      200  {array}  dto.BatchStockDTO
// @Router       /api/batches [get]
func (h *ReportHandler) GetBatches(c *fiber.Ctx) error {
	items, err := h.uc.GetBatchStock(c.Context(), c.Query("medicine_id"), c.QueryBool("in_stock"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// GetMoves godoc
// @Summary      Libro de movimientos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        medicine_id  query  string  false  "filtrar por medicamento"
// @Param        reason       query  string  false  "receipt | daily_dose | expired | adjustment | shortfall"
// @Param        from         query  string  false  "fecha desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "fecha hasta (YYYY-MM-DD)"
// @Param        limit        query  int     false  "máximo de filas (default 200)"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {array}  dto.StockMoveDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/moves [get]
func (h *ReportHandler) GetMoves(c *fiber.Ctx) error {
	filter := repository.MoveFilter{
		MedicineID: c.Query("medicine_id"),
		Reason:     c.Query("reason"),
		Limit:      c.QueryInt("limit"),
		Offset:     c.QueryInt("offset"),
	}
	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		if v := c.Query(name); v != "" {
			d, err := time.ParseInLocation("2006-01-02", v, time.UTC)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "fecha inválida, formato YYYY-MM-DD"})
			}
			*dst = &d
		}
	}
	items, err := h.uc.GetMoves(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// GetStockStatusPDF godoc
// @Summary      Reporte imprimible de estado de stock
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/stock-status.pdf [get]
func (h *ReportHandler) GetStockStatusPDF(c *fiber.Ctx) error {
	now := time.Now().UTC().Truncate(24 * time.Hour)

	overview, err := h.uc.GetOverview(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	lowStock, err := h.uc.GetLowStockAlerts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	expiring, err := h.uc.GetExpiring(c.Context(), now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	doc, err := h.gen.Generate(c.Context(), now, overview, lowStock, expiring)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_GENERATION", Message: err.Error()})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="stock-status.pdf"`)
	return c.Send(doc)
}
