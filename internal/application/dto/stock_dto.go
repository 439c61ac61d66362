package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExportLineRequest renglón de una salida: cantidad en la unidad solicitada.
type ExportLineRequest struct {
	ItemID   string `json:"item_id"`
	UnitID   string `json:"unit_id"`
	Quantity int64  `json:"quantity"`
}

// ExportRequest body para POST /api/stock/exports.
// Para ExportType=DISPOSAL se fuerza AllowExpired=true.
type ExportRequest struct {
	Date         time.Time           `json:"date"`
	ExportType   string              `json:"export_type"` // USAGE | DISPOSAL
	EmployeeID   string              `json:"employee_id"`
	AllowExpired bool                `json:"allow_expired"`
	Notes        string              `json:"notes,omitempty"`
	Lines        []ExportLineRequest `json:"lines"`
}

// ImportLineRequest renglón de una entrada: lote, vencimiento y precio de compra.
type ImportLineRequest struct {
	ItemID      string          `json:"item_id"`
	UnitID      string          `json:"unit_id"`
	Quantity    int64           `json:"quantity"`
	LotNumber   string          `json:"lot_number"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	BinLocation string          `json:"bin_location,omitempty"`
}

// ImportRequest body para POST /api/stock/imports.
type ImportRequest struct {
	Date          time.Time           `json:"date"`
	SupplierID    string              `json:"supplier_id"`
	InvoiceNumber string              `json:"invoice_number"`
	Notes         string              `json:"notes,omitempty"`
	Lines         []ImportLineRequest `json:"lines"`
}

// UnpackingDTO procedencia de desempaque de un renglón de salida.
type UnpackingDTO struct {
	ParentBatchID    string `json:"parent_batch_id"`
	ParentUnitName   string `json:"parent_unit_name"`
	RemainingInChild int64  `json:"remaining_in_child"`
}

// TransactionLineDTO detalle de un renglón ya asignado/registrado.
// Unpacking solo viene en salidas que requirieron desempaque.
type TransactionLineDTO struct {
	ItemID          string           `json:"item_id"`
	ItemCode        string           `json:"item_code,omitempty"`
	ItemName        string           `json:"item_name,omitempty"`
	BatchID         string           `json:"batch_id"`
	LotNumber       string           `json:"lot_number"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	QuantityChange  int64            `json:"quantity_change"` // unidades base, con signo
	UnitID          string           `json:"unit_id"`
	UnitName        string           `json:"unit_name,omitempty"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	LineValue       decimal.Decimal  `json:"line_value"`
	PriceIsFallback bool             `json:"price_is_fallback,omitempty"`
	Unpacking       *UnpackingDTO    `json:"unpacking,omitempty"`
}

// WarningDTO advertencia de vencimiento sobre un renglón.
type WarningDTO struct {
	Code            string     `json:"code"`
	BatchID         string     `json:"batch_id"`
	LotNumber       string     `json:"lot_number"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	DaysUntilExpiry int        `json:"days_until_expiry"`
	Message         string     `json:"message"`
}

// TransactionResponse resultado completo de una transacción de stock.
type TransactionResponse struct {
	ID         string               `json:"id"`
	Code       string               `json:"code"`
	Type       string               `json:"type"`
	ExportType string               `json:"export_type,omitempty"`
	Date       time.Time            `json:"date"`
	Status     string               `json:"status"`
	TotalValue decimal.Decimal      `json:"total_value"`
	Lines      []TransactionLineDTO `json:"lines"`
	Warnings   []WarningDTO         `json:"warnings,omitempty"`
}

// AvailabilityResponse chequeo de disponibilidad de un insumo.
type AvailabilityResponse struct {
	ItemID     string `json:"item_id"`
	Total      int64  `json:"total"`
	NonExpired int64  `json:"non_expired"`
	Expired    int64  `json:"expired"`
}

// NearExpiryBatchDTO lote próximo a vencer para el reporte.
type NearExpiryBatchDTO struct {
	BatchID         string     `json:"batch_id"`
	ItemID          string     `json:"item_id"`
	ItemCode        string     `json:"item_code,omitempty"`
	ItemName        string     `json:"item_name,omitempty"`
	LotNumber       string     `json:"lot_number"`
	ExpiryDate      *time.Time `json:"expiry_date"`
	QuantityOnHand  int64      `json:"quantity_on_hand"`
	DaysUntilExpiry int        `json:"days_until_expiry"`
	BinLocation     string     `json:"bin_location,omitempty"`
}
