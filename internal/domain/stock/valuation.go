package stock

import (
	"github.com/shopspring/decimal"
)

// Valuation es el costo unitario resuelto para un lote.
// IsFallback marca que se usó el costo por defecto configurado (sin precio de
// compra registrado para el lote ni para su cadena de padres).
type Valuation struct {
	UnitPrice  decimal.Decimal
	IsFallback bool
}

// LineValue calcula el valor del renglón: precio unitario por cantidad con signo.
func LineValue(unitPrice decimal.Decimal, quantityChange int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantityChange))
}

// TotalValue agrega el valor absoluto de los renglones de la transacción.
func TotalValue(lineValues []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range lineValues {
		total = total.Add(v.Abs())
	}
	return total
}
