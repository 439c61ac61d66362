package entity

import "time"

// UnpackedLotSuffix es el sufijo del lote hijo creado al desempacar una presentación.
// Desempacar dos veces el mismo lote padre acumula en el mismo lote hijo.
const UnpackedLotSuffix = "-UNPACKED"

// Batch representa un lote físico de un insumo: cantidad recibida junta, con una
// misma fecha de vencimiento y número de lote.
// QuantityOnHand siempre en unidades base y nunca negativa.
type Batch struct {
	ID              string
	ItemID          string
	LotNumber       string // único por insumo
	ReceivedUnitID  string // presentación en la que ingresó el lote; determina qué se puede desempacar
	ExpiryDate      *time.Time // nil = no vence; ordena después de todos los lotes con fecha
	QuantityOnHand  int64
	InitialQuantity int64
	BinLocation     string
	SupplierID      string
	ParentBatchID   *string // solo para lotes creados por desempaque
	IsUnpacked      bool    // el lote fue origen de al menos un desempaque
	UnpackedAt      *time.Time
	UnpackedByTxID  string // transacción que originó el último desempaque
	ImportedAt      time.Time
	CreatedAt       time.Time
}

// IsExpired indica si el lote está vencido respecto a la fecha dada.
// Un lote sin fecha de vencimiento nunca vence.
func (b *Batch) IsExpired(today time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(today)
}

// DaysUntilExpiry devuelve los días hasta el vencimiento (negativo si ya venció).
// ok es false si el lote no tiene fecha de vencimiento.
func (b *Batch) DaysUntilExpiry(today time.Time) (days int, ok bool) {
	if b.ExpiryDate == nil {
		return 0, false
	}
	d := b.ExpiryDate.Sub(today).Hours() / 24
	return int(d), true
}

// UnpackedLot devuelve el número de lote del hijo que produce desempacar este lote.
func (b *Batch) UnpackedLot() string {
	return b.LotNumber + UnpackedLotSuffix
}
