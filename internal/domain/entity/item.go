package entity

import "time"

// Item representa un insumo del inventario de la clínica (medicamento, material, etc.).
// El stock total no se almacena: se deriva de la suma de sus lotes (ver BatchRepository).
type Item struct {
	ID          string
	Code        string // código único del insumo
	Name        string
	Description string
	MinStock    int64 // en unidades base
	MaxStock    int64 // en unidades base
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
