package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinica-stock/internal/application/dto"
	appstock "github.com/jhoicas/clinica-stock/internal/application/stock"
)

// ReportHandler maneja reportes de solo lectura (protegido).
type ReportHandler struct {
	queryUC *appstock.QueryUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(queryUC *appstock.QueryUseCase) *ReportHandler {
	return &ReportHandler{queryUC: queryUC}
}

// NearExpiry godoc
// @Summary      Lotes con stock próximos a vencer
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (default: configurada)"
// @Success      200  {array}  dto.NearExpiryBatchDTO
// @Router       /api/reports/near-expiry [get]
func (h *ReportHandler) NearExpiry(c *fiber.Ctx) error {
	days := c.QueryInt("days")
	list, err := h.queryUC.NearExpiryReport(c.Context(), days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "batches": list})
}
