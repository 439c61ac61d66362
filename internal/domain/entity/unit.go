package entity

import "time"

// Unit representa una presentación/unidad de medida de un insumo.
// Cada insumo tiene exactamente una unidad base (ConversionRateToBase = 1, IsBaseUnit = true);
// las demás presentaciones convierten a base con un multiplicador entero >= 1.
// Ejemplo: "tableta" (base, 1) y "caja" (10).
type Unit struct {
	ID                   string
	ItemID               string
	Name                 string
	ConversionRateToBase int64
	IsBaseUnit           bool
	DisplayOrder         int
	CreatedAt            time.Time
}
