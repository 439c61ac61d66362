package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinica-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que las mutaciones de lotes, la cabecera y los renglones
// de una transacción de stock se confirmen juntos o no se confirme nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		txRepo repository.TransactionRepository,
	) error) error
}

// Config parámetros del motor de stock (ver pkg/config).
type Config struct {
	// DefaultUnitCost valora lotes sin precio de compra registrado. Los renglones
	// valorados así quedan marcados con PriceIsFallback.
	DefaultUnitCost decimal.Decimal
	// NearExpiryDays ventana de advertencia NEAR_EXPIRY (0 < días < ventana).
	NearExpiryDays int
	// Prefijos de código secuencial por tipo de transacción.
	ExportCodePrefix string
	ImportCodePrefix string
}
