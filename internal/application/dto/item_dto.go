package dto

import "time"

// UnitDTO presentación de un insumo.
type UnitDTO struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	ConversionRateToBase int64  `json:"conversion_rate_to_base"`
	IsBaseUnit           bool   `json:"is_base_unit"`
	DisplayOrder         int    `json:"display_order"`
}

// BatchDTO lote con stock de un insumo.
type BatchDTO struct {
	ID             string     `json:"id"`
	LotNumber      string     `json:"lot_number"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	QuantityOnHand int64      `json:"quantity_on_hand"`
	BinLocation    string     `json:"bin_location,omitempty"`
	IsUnpacked     bool       `json:"is_unpacked"`
	ParentBatchID  *string    `json:"parent_batch_id,omitempty"`
}

// ItemResponse insumo con sus presentaciones, lotes y disponibilidad derivada.
type ItemResponse struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	MinStock    int64      `json:"min_stock"`
	MaxStock    int64      `json:"max_stock"`
	IsActive    bool       `json:"is_active"`
	Units       []UnitDTO  `json:"units,omitempty"`
	Batches     []BatchDTO `json:"batches,omitempty"`
	TotalOnHand int64      `json:"total_on_hand"`
	NonExpired  int64      `json:"non_expired"`
	Expired     int64      `json:"expired"`
}

// ItemSummary renglón de listado de insumos.
type ItemSummary struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	IsActive    bool   `json:"is_active"`
	TotalOnHand int64  `json:"total_on_hand"`
	MinStock    int64  `json:"min_stock"`
	BelowMin    bool   `json:"below_min"`
}
