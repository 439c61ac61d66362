package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinica-stock/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para transacciones de stock.
type TransactionRepository interface {
	CreateHeader(header *entity.TransactionHeader) error
	CreateLine(line *entity.TransactionLine) error
	// GetByID devuelve la cabecera con sus renglones. nil si no existe.
	GetByID(id string) (*entity.TransactionHeader, error)
	// NextCode genera el siguiente código secuencial del día: PREFIX-YYYYMMDD-NNN.
	// Debe llamarse dentro de la transacción de BD que inserta la cabecera.
	NextCode(prefix string, date time.Time) (string, error)
	// LastImportPrice devuelve el precio unitario positivo más reciente de un renglón
	// de entrada que referencie exactamente este lote. found=false si no hay ninguno.
	LastImportPrice(batchID string) (price decimal.Decimal, found bool, err error)
	// InvoiceExists indica si ya se registró esa factura para el proveedor.
	InvoiceExists(supplierID, invoiceNumber string) (bool, error)
}
