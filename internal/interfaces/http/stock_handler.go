package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinica-stock/internal/application/dto"
	appstock "github.com/jhoicas/clinica-stock/internal/application/stock"
)

// StockHandler maneja las transacciones de stock: entradas, salidas, consultas y
// comprobantes (protegido).
type StockHandler struct {
	exportUC  *appstock.ExportUseCase
	importUC  *appstock.ImportUseCase
	queryUC   *appstock.QueryUseCase
	voucherUC *appstock.VoucherUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(
	exportUC *appstock.ExportUseCase,
	importUC *appstock.ImportUseCase,
	queryUC *appstock.QueryUseCase,
	voucherUC *appstock.VoucherUseCase,
) *StockHandler {
	return &StockHandler{exportUC: exportUC, importUC: importUC, queryUC: queryUC, voucherUC: voucherUC}
}

// RegisterExport godoc
// @Summary      Registrar salida de stock (FEFO, con desempaque automático)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExportRequest  true  "export_type USAGE|DISPOSAL, employee_id, lines"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/exports [post]
func (h *StockHandler) RegisterExport(c *fiber.Ctx) error {
	var in dto.ExportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.exportUC.RegisterExport(c.Context(), in, GetEmployeeID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// RegisterImport godoc
// @Summary      Registrar entrada de mercancía
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportRequest  true  "supplier_id, invoice_number, lines con lote/vencimiento/precio"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/imports [post]
func (h *StockHandler) RegisterImport(c *fiber.Ctx) error {
	var in dto.ImportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.importUC.RegisterImport(c.Context(), in, GetEmployeeID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetTransaction godoc
// @Summary      Detalle de una transacción de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/transactions/{id} [get]
func (h *StockHandler) GetTransaction(c *fiber.Ctx) error {
	resp, err := h.queryUC.GetTransaction(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}

// GetVoucher godoc
// @Summary      Comprobante PDF de una transacción
// @Tags         stock
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/transactions/{id}/voucher [get]
func (h *StockHandler) GetVoucher(c *fiber.Ctx) error {
	pdfBytes, err := h.voucherUC.GenerateVoucher(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="comprobante.pdf"`)
	return c.Send(pdfBytes)
}

// GetAvailability godoc
// @Summary      Disponibilidad de un insumo (total, no vencido, vencido)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del insumo"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/availability/{id} [get]
func (h *StockHandler) GetAvailability(c *fiber.Ctx) error {
	resp, err := h.queryUC.Availability(c.Context(), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(resp)
}
