package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrEmptyItems          = errors.New("la transacción no tiene renglones")
	ErrInvalidDate         = errors.New("fecha de transacción inválida")
	ErrItemNotFound        = errors.New("insumo no encontrado")
	ErrDuplicateItemCode   = errors.New("código de insumo ya registrado")
	ErrItemInactive        = errors.New("insumo inactivo")
	ErrUnitNotFound        = errors.New("unidad de medida no encontrada")
	ErrEmployeeNotFound    = errors.New("empleado no encontrado")
	ErrEmployeeInactive    = errors.New("empleado inactivo")
	ErrSupplierNotFound    = errors.New("proveedor no encontrado")
	ErrSupplierInactive    = errors.New("proveedor inactivo")
	ErrDuplicateInvoice    = errors.New("número de factura ya registrado para el proveedor")
	ErrExpiredItem         = errors.New("la fecha de vencimiento ya pasó")
	ErrBatchExpiryConflict = errors.New("el lote existe con otra fecha de vencimiento")
	ErrBatchUnitConflict   = errors.New("el lote existe recibido en otra presentación")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrOnlyExpiredStock    = errors.New("solo hay stock vencido disponible")
	ErrTransactionNotFound = errors.New("transacción no encontrada")
	ErrUnauthorized        = errors.New("no autorizado")

	// ErrAllocationIncomplete es una violación de invariante interna: la asignación
	// terminó con faltante después de un chequeo de disponibilidad exitoso.
	// Nunca debe tratarse como error de negocio ni como éxito parcial.
	ErrAllocationIncomplete = errors.New("asignación incompleta tras chequeo de disponibilidad")
)

// InsufficientStockError detalla un faltante de stock para que el caller pueda
// construir un mensaje accionable (solicitado, disponible por vencimiento, faltante).
type InsufficientStockError struct {
	ItemID     string
	Requested  int64 // en unidades base
	Total      int64
	NonExpired int64
	Expired    int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para insumo %s: solicitado %d, disponible %d (no vencido %d, vencido %d), faltante %d",
		e.ItemID, e.Requested, e.Total, e.NonExpired, e.Expired, e.Shortage())
}

// Shortage devuelve el faltante en unidades base.
func (e *InsufficientStockError) Shortage() int64 { return e.Requested - e.Total }

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// OnlyExpiredStockError indica que todo el stock disponible está vencido y la
// operación no permitió consumir vencidos.
type OnlyExpiredStockError struct {
	ItemID    string
	Requested int64
	Expired   int64
}

func (e *OnlyExpiredStockError) Error() string {
	return fmt.Sprintf("solo hay stock vencido para insumo %s: solicitado %d, vencido disponible %d",
		e.ItemID, e.Requested, e.Expired)
}

func (e *OnlyExpiredStockError) Unwrap() error { return ErrOnlyExpiredStock }

// BatchExpiryConflictError indica que el lote ya existe con otra fecha de vencimiento.
type BatchExpiryConflictError struct {
	ItemID    string
	LotNumber string
	Existing  *time.Time
	Requested *time.Time
}

func (e *BatchExpiryConflictError) Error() string {
	return fmt.Sprintf("conflicto de vencimiento en lote %s del insumo %s: registrado %s, solicitado %s",
		e.LotNumber, e.ItemID, formatExpiry(e.Existing), formatExpiry(e.Requested))
}

func (e *BatchExpiryConflictError) Unwrap() error { return ErrBatchExpiryConflict }

// BatchUnitConflictError indica que el lote ya existe recibido en otra presentación.
// Mezclar presentaciones en un mismo lote dejaría cantidades que la asignación no
// puede drenar (ni sueltas ni como paquete completo).
type BatchUnitConflictError struct {
	ItemID        string
	LotNumber     string
	ReceivedUnit  string
	RequestedUnit string
}

func (e *BatchUnitConflictError) Error() string {
	return fmt.Sprintf("conflicto de presentación en lote %s del insumo %s: recibido en %s, solicitado en %s",
		e.LotNumber, e.ItemID, e.ReceivedUnit, e.RequestedUnit)
}

func (e *BatchUnitConflictError) Unwrap() error { return ErrBatchUnitConflict }

func formatExpiry(t *time.Time) string {
	if t == nil {
		return "sin vencimiento"
	}
	return t.Format("2006-01-02")
}
