// Package pdf genera el comprobante imprimible de una transacción de stock
// (entrada o salida) para el archivo físico de la clínica.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de movimiento + Código  │  Fecha              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Insumo | Lote | Vence | Cant (base) | P.Unit | Valor │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ADVERTENCIAS: próximos a vencer / vencidos consumidos      │
//	│  TOTAL VALORIZADO                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/clinica-stock/internal/application/dto"
	appstock "github.com/jhoicas/clinica-stock/internal/application/stock"
	"github.com/jhoicas/clinica-stock/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 84}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 60, Blue: 30}
)

var _ appstock.VoucherPDFGenerator = (*MarotoVoucherGenerator)(nil)

// MarotoVoucherGenerator implementa stock.VoucherPDFGenerator usando Maroto v2.
type MarotoVoucherGenerator struct {
	ClinicName string
}

// NewMarotoVoucherGenerator construye el generador.
func NewMarotoVoucherGenerator(clinicName string) *MarotoVoucherGenerator {
	return &MarotoVoucherGenerator{ClinicName: clinicName}
}

// GenerateVoucherPDF genera el PDF del comprobante y devuelve sus bytes.
func (g *MarotoVoucherGenerator) GenerateVoucherPDF(_ context.Context, tx *dto.TransactionResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de movimiento de stock", true).
		WithAuthor(g.ClinicName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.ClinicName, tx))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(tx.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(tx))

	if len(tx.Warnings) > 0 {
		m.AddRows(line.NewRow(3))
		for _, r := range warningRows(tx.Warnings) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: clínica + tipo de movimiento (izq) y código + fecha (der).
func headerRow(clinicName string, tx *dto.TransactionResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(clinicName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(movementTitle(tx), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(tx.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+tx.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func movementTitle(tx *dto.TransactionResponse) string {
	switch {
	case tx.Type == entity.TransactionTypeImport:
		return "Entrada de mercancía"
	case tx.ExportType == entity.ExportTypeDisposal:
		return "Salida de stock — baja por descarte"
	default:
		return "Salida de stock — consumo"
	}
}

// tableHeaderRow: cabecera de la tabla de renglones.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Insumo", 4, align.Left),
		h("Lote", 2, align.Left),
		h("Vence", 2, align.Center),
		h("Cant. base", 1, align.Right),
		h("P. Unit.", 1, align.Right),
		h("Valor", 2, align.Right),
	)
}

// tableLineRows: una fila por renglón; los de desempaque llevan una sub-línea
// con la procedencia del lote padre.
func tableLineRows(lines []dto.TransactionLineDTO) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		expiry := "—"
		if l.ExpiryDate != nil {
			expiry = l.ExpiryDate.Format("02/01/2006")
		}
		price := "$" + l.UnitPrice.StringFixed(2)
		if l.PriceIsFallback {
			price += " *"
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(l.ItemName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.LotNumber, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(expiry, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.QuantityChange), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(price, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+l.LineValue.Abs().StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
		if l.Unpacking != nil {
			result = append(result, row.New(5).Add(
				col.New(12).Add(text.New(
					fmt.Sprintf("    ↳ desempacado de 1 %s del lote padre (quedan %d sueltas)",
						l.Unpacking.ParentUnitName, l.Unpacking.RemainingInChild),
					props.Text{Size: 7, Color: colorGray, Top: 0.5, Left: 3},
				)),
			))
		}
	}
	return result
}

// totalRow: total valorizado de la transacción.
func totalRow(tx *dto.TransactionResponse) core.Row {
	return row.New(10).Add(
		col.New(7),
		col.New(3).Add(text.New("TOTAL VALORIZADO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(2).Add(text.New("$"+tx.TotalValue.StringFixed(2), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// warningRows: advertencias de vencimiento del movimiento.
func warningRows(warnings []dto.WarningDTO) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ADVERTENCIAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorAlert, Top: 1,
			}),
		)),
	}
	for _, w := range warnings {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("• "+w.Message, props.Text{Size: 7.5, Color: colorAlert, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}
