package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinica-stock/internal/application/dto"
	"github.com/jhoicas/clinica-stock/internal/domain"
)

// writeDomainError traduce errores de dominio a respuestas HTTP con código estable.
// Los errores estructurados de stock llevan el detalle itemizado en Details para
// que el cliente pueda armar un mensaje accionable.
func writeDomainError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: insufficient.Error(),
			Details: map[string]any{
				"item_id":     insufficient.ItemID,
				"requested":   insufficient.Requested,
				"total":       insufficient.Total,
				"non_expired": insufficient.NonExpired,
				"expired":     insufficient.Expired,
				"shortage":    insufficient.Shortage(),
			},
		})
	}
	var onlyExpired *domain.OnlyExpiredStockError
	if errors.As(err, &onlyExpired) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "ONLY_EXPIRED_STOCK_AVAILABLE",
			Message: onlyExpired.Error(),
			Details: map[string]any{
				"item_id":   onlyExpired.ItemID,
				"requested": onlyExpired.Requested,
				"expired":   onlyExpired.Expired,
			},
		})
	}
	var expiryConflict *domain.BatchExpiryConflictError
	if errors.As(err, &expiryConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "BATCH_EXPIRY_CONFLICT",
			Message: expiryConflict.Error(),
			Details: map[string]any{
				"item_id":    expiryConflict.ItemID,
				"lot_number": expiryConflict.LotNumber,
				"existing":   expiryConflict.Existing,
				"requested":  expiryConflict.Requested,
			},
		})
	}

	var unitConflict *domain.BatchUnitConflictError
	if errors.As(err, &unitConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "BATCH_UNIT_CONFLICT",
			Message: unitConflict.Error(),
			Details: map[string]any{
				"item_id":        unitConflict.ItemID,
				"lot_number":     unitConflict.LotNumber,
				"received_unit":  unitConflict.ReceivedUnit,
				"requested_unit": unitConflict.RequestedUnit,
			},
		})
	}

	type mapping struct {
		sentinel error
		status   int
		code     string
	}
	for _, m := range []mapping{
		{domain.ErrEmptyItems, fiber.StatusBadRequest, "EMPTY_ITEMS"},
		{domain.ErrInvalidDate, fiber.StatusBadRequest, "INVALID_DATE"},
		{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{domain.ErrExpiredItem, fiber.StatusBadRequest, "EXPIRED_ITEM"},
		{domain.ErrItemNotFound, fiber.StatusNotFound, "ITEM_NOT_FOUND"},
		{domain.ErrUnitNotFound, fiber.StatusNotFound, "UNIT_NOT_FOUND"},
		{domain.ErrEmployeeNotFound, fiber.StatusNotFound, "EMPLOYEE_NOT_FOUND"},
		{domain.ErrSupplierNotFound, fiber.StatusNotFound, "SUPPLIER_NOT_FOUND"},
		{domain.ErrTransactionNotFound, fiber.StatusNotFound, "TRANSACTION_NOT_FOUND"},
		{domain.ErrItemInactive, fiber.StatusConflict, "ITEM_INACTIVE"},
		{domain.ErrEmployeeInactive, fiber.StatusConflict, "EMPLOYEE_INACTIVE"},
		{domain.ErrSupplierInactive, fiber.StatusConflict, "SUPPLIER_INACTIVE"},
		{domain.ErrDuplicateInvoice, fiber.StatusConflict, "DUPLICATE_INVOICE"},
		{domain.ErrDuplicateItemCode, fiber.StatusConflict, "DUPLICATE_ITEM_CODE"},
	} {
		if errors.Is(err, m.sentinel) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.sentinel.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
