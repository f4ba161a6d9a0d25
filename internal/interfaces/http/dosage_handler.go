package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/dosage"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/dto"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain"
)

// DosageHandler dispara la corrida de dosis diaria desde el dashboard.
type DosageHandler struct {
	uc *dosage.RunUseCase
}

// NewDosageHandler construye el handler.
func NewDosageHandler(uc *dosage.RunUseCase) *DosageHandler {
	return &DosageHandler{uc: uc}
}

// Run godoc
// @Summary      Ejecutar la corrida de dosis diaria
// @Description  Idempotente por fecha: una fecha ya aplicada devuelve
//
//	already_applied=true sin tocar stock, salvo force=true.
//
// @Tags         dosage
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RunRequest  true  "date (vacío = hoy), force, verbose, dry_run"
// @Success      200   {object}  dto.RunReportDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dosage/runs [post]
func (h *DosageHandler) Run(c *fiber.Ctx) error {
	var in dto.RunRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	opts := dosage.Options{Force: in.Force, Verbose: in.Verbose, DryRun: in.DryRun}
	if in.Date == "" {
		opts.Date = time.Now().UTC()
	} else {
		d, err := time.ParseInLocation("2006-01-02", in.Date, time.UTC)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "fecha inválida, formato YYYY-MM-DD"})
		}
		opts.Date = d
	}

	report, err := h.uc.Run(c.Context(), opts)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) || errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toRunReportDTO(report))
}

func toRunReportDTO(r *dosage.Report) dto.RunReportDTO {
	out := dto.RunReportDTO{
		Date:           r.Date.Format("2006-01-02"),
		DryRun:         r.DryRun,
		AlreadyApplied: r.AlreadyApplied,
		ScrappedLots:   r.ScrappedLots,
		AppliedCount:   len(r.Applied),
		ShortedCount:   len(r.Shorted),
		FailedCount:    len(r.Failed),
		Applied:        toRunMedicineDTOs(r.Applied),
		Shorted:        toRunMedicineDTOs(r.Shorted),
	}
	for _, f := range r.Failed {
		out.Failed = append(out.Failed, dto.RunFailedDTO{MedicineID: f.MedicineID, Error: f.Err})
	}
	return out
}

func toRunMedicineDTOs(results []dosage.MedicineResult) []dto.RunMedicineDTO {
	out := make([]dto.RunMedicineDTO, 0, len(results))
	for _, r := range results {
		d := dto.RunMedicineDTO{
			MedicineID: r.MedicineID,
			Required:   r.Required,
			Applied:    r.Applied,
			Shortfall:  r.Shortfall,
		}
		for _, a := range r.Allocations {
			d.Allocations = append(d.Allocations, dto.RunAllocationDTO{
				BatchID:  a.BatchID,
				BatchNo:  a.BatchNo,
				Quantity: a.Quantity,
			})
		}
		out = append(out, d)
	}
	return out
}
