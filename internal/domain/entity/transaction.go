package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de stock.
const (
	TransactionTypeImport = "IMPORT" // entrada de mercancía
	TransactionTypeExport = "EXPORT" // salida de mercancía
)

// Subtipos de salida.
const (
	ExportTypeUsage    = "USAGE"    // consumo normal (atención, venta interna)
	ExportTypeDisposal = "DISPOSAL" // baja/descarte (permite consumir vencidos)
)

// Estados de la transacción.
const (
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusReversed  = "REVERSED" // reversa explícita; los lotes no se borran
)

// Estados de aprobación.
const (
	ApprovalStatusApproved = "APPROVED"
	ApprovalStatusPending  = "PENDING"
)

// TransactionHeader es la cabecera de una transacción de stock (entrada o salida).
// TotalValue = suma de |LineValue| de sus renglones.
type TransactionHeader struct {
	ID             string
	Code           string // secuencial por día: PREFIX-YYYYMMDD-NNN
	Type           string // IMPORT | EXPORT
	ExportType     string // USAGE | DISPOSAL (solo EXPORT)
	Date           time.Time
	Status         string
	ApprovalStatus string
	EmployeeID     string // quien retira (EXPORT)
	SupplierID     string // quien provee (IMPORT)
	InvoiceNumber  string // factura del proveedor (IMPORT); única por proveedor
	Notes          string
	TotalValue     decimal.Decimal
	CreatedBy      string
	CreatedAt      time.Time
	Lines          []*TransactionLine
}

// TransactionLine es un renglón de transacción: referencia un lote y una unidad.
// QuantityChange va en unidades base, con signo (positivo = entrada, negativo = salida).
// Un renglón de salida con desempaque guarda la procedencia del lote padre.
type TransactionLine struct {
	ID              string
	TransactionID   string
	ItemID          string
	BatchID         string
	UnitID          string // unidad solicitada por el usuario
	QuantityChange  int64
	UnitPrice       decimal.Decimal
	LineValue       decimal.Decimal // UnitPrice * QuantityChange (con signo)
	PriceIsFallback bool            // true si se valoró con el costo por defecto configurado
	ParentBatchID   *string         // procedencia de desempaque
	ParentUnitName  string
	CreatedAt       time.Time
}
