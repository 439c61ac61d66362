package entity

import "time"

// Supplier representa un proveedor de insumos.
type Supplier struct {
	ID        string
	Name      string
	TaxID     string
	Phone     string
	Email     string
	IsActive  bool
	CreatedAt time.Time
}
