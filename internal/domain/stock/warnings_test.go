package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinica-stock/internal/domain/entity"
	"github.com/jhoicas/clinica-stock/internal/domain/stock"
)

const nearExpiryDays = 30

func record(b *entity.Batch) *stock.AllocationRecord {
	return &stock.AllocationRecord{Batch: b, Quantity: 1}
}

func TestEvaluateWarnings_ProximoAVencer(t *testing.T) {
	b := testBatch("b1", "L1", 5, dayPtr(10))

	ws := stock.EvaluateWarnings(record(b), entity.ExportTypeUsage, nearExpiryDays, testToday)

	require.Len(t, ws, 1)
	assert.Equal(t, stock.WarningNearExpiry, ws[0].Code)
	assert.Equal(t, "L1", ws[0].LotNumber)
	assert.Equal(t, 10, ws[0].DaysUntilExpiry)
}

func TestEvaluateWarnings_LimitesDeVentana(t *testing.T) {
	// Exactamente 30 días: fuera de la ventana (0 < días < 30).
	ws := stock.EvaluateWarnings(record(testBatch("b1", "L1", 5, dayPtr(30))), entity.ExportTypeUsage, nearExpiryDays, testToday)
	assert.Empty(t, ws, "30 días no es 'próximo a vencer'")

	ws = stock.EvaluateWarnings(record(testBatch("b2", "L2", 5, dayPtr(29))), entity.ExportTypeUsage, nearExpiryDays, testToday)
	assert.Len(t, ws, 1, "29 días sí está dentro de la ventana")

	// Vence hoy (0 días): tampoco dispara NEAR_EXPIRY.
	ws = stock.EvaluateWarnings(record(testBatch("b3", "L3", 5, dayPtr(0))), entity.ExportTypeUsage, nearExpiryDays, testToday)
	assert.Empty(t, ws)
}

func TestEvaluateWarnings_VencidoUsadoSoloEnDescarte(t *testing.T) {
	b := testBatch("b1", "L1", 5, dayPtr(-3))

	enUso := stock.EvaluateWarnings(record(b), entity.ExportTypeUsage, nearExpiryDays, testToday)
	assert.Empty(t, enUso, "EXPIRED_USED solo aplica a salidas DISPOSAL")

	enDescarte := stock.EvaluateWarnings(record(b), entity.ExportTypeDisposal, nearExpiryDays, testToday)
	require.Len(t, enDescarte, 1)
	assert.Equal(t, stock.WarningExpiredUsed, enDescarte[0].Code)
}

func TestEvaluateWarnings_SinFechaNoAdvierte(t *testing.T) {
	b := testBatch("b1", "SIN-FECHA", 5, nil)

	ws := stock.EvaluateWarnings(record(b), entity.ExportTypeDisposal, nearExpiryDays, testToday)

	assert.Empty(t, ws, "un lote sin vencimiento no genera advertencias de vencimiento")
}
