package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/dto"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/stock"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain"
)

// StockHandler maneja las acciones de stock del dashboard (protegido).
type StockHandler struct {
	receiveUC *stock.ReceiveUseCase
	adjustUC  *stock.AdjustUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(receiveUC *stock.ReceiveUseCase, adjustUC *stock.AdjustUseCase) *StockHandler {
	return &StockHandler{receiveUC: receiveUC, adjustUC: adjustUC}
}

// Receive godoc
// @Summary      Registrar recepción de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "medicine_id, batch_no, quantity, expiry_date opcional"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/receipts [post]
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := stock.ReceiveInput{
		MedicineID: in.MedicineID,
		BatchNo:    in.BatchNo,
		Quantity:   in.Quantity,
		Note:       in.Note,
	}
	if in.ExpiryDate != "" {
		d, err := time.ParseInLocation("2006-01-02", in.ExpiryDate, time.UTC)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "expiry_date inválida, formato YYYY-MM-DD"})
		}
		input.ExpiryDate = &d
	}
	if err := h.receiveUC.Receive(c.Context(), input); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "medicamento no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "recepción registrada"})
}

// Adjust godoc
// @Summary      Ajustar un lote a cantidad exacta
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustRequest  true  "batch_id, new_quantity"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.adjustUC.Adjust(c.Context(), stock.AdjustInput{
		BatchID:     in.BatchID,
		NewQuantity: in.NewQuantity,
		Note:        in.Note,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la cantidad no puede ser negativa"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "ajuste aplicado"})
}
