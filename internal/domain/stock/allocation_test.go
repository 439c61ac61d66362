package stock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinica-stock/internal/domain"
	"github.com/jhoicas/clinica-stock/internal/domain/entity"
	"github.com/jhoicas/clinica-stock/internal/domain/stock"
)

var (
	testItem = &entity.Item{ID: "item-1", Code: "AMOX500", Name: "Amoxicilina 500mg", IsActive: true}

	unitPieza  = &entity.Unit{ID: "u-base", ItemID: "item-1", Name: "tableta", ConversionRateToBase: 1, IsBaseUnit: true, DisplayOrder: 1}
	unitCaja   = &entity.Unit{ID: "u-caja", ItemID: "item-1", Name: "caja", ConversionRateToBase: 10, DisplayOrder: 2}
	unitPallet = &entity.Unit{ID: "u-pallet", ItemID: "item-1", Name: "display", ConversionRateToBase: 50, DisplayOrder: 3}

	testUnits = []*entity.Unit{unitPieza, unitCaja, unitPallet}
)

func boxBatch(id, lot string, boxes int64, expiry *time.Time) *entity.Batch {
	b := testBatch(id, lot, boxes*unitCaja.ConversionRateToBase, expiry)
	b.ReceivedUnitID = unitCaja.ID
	return b
}

func allocInput(unit *entity.Unit, qty int64, allowExpired bool, batches ...*entity.Batch) stock.AllocationInput {
	return stock.AllocationInput{
		Item:          testItem,
		Units:         testUnits,
		RequestedUnit: unit,
		RequestedQty:  qty,
		Batches:       batches,
		AllowExpired:  allowExpired,
		Today:         testToday,
		Now:           testToday.Add(10 * time.Hour),
		TransactionID: "tx-1",
	}
}

func totalOnHand(batches []*entity.Batch, extra ...*entity.Batch) int64 {
	var sum int64
	for _, b := range batches {
		sum += b.QuantityOnHand
	}
	for _, b := range extra {
		sum += b.QuantityOnHand
	}
	return sum
}

// Escenario FEFO simple: [5 @ T+5] y [5 @ T+10], salida de 7 -> 5 del primero y 2
// del segundo.
func TestAllocate_FEFOSimple(t *testing.T) {
	b1 := testBatch("b1", "L1", 5, dayPtr(5))
	b2 := testBatch("b2", "L2", 5, dayPtr(10))

	res, err := stock.Allocate(allocInput(unitPieza, 7, false, b1, b2))
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "L1", res.Records[0].Batch.LotNumber)
	assert.Equal(t, int64(5), res.Records[0].Quantity)
	assert.Equal(t, "L2", res.Records[1].Batch.LotNumber)
	assert.Equal(t, int64(2), res.Records[1].Quantity)

	assert.Equal(t, int64(0), b1.QuantityOnHand)
	assert.Equal(t, int64(3), b2.QuantityOnHand)
	assert.Equal(t, res.RequestedBase, res.Allocated(),
		"la suma de tomas debe igualar la cantidad solicitada en base")
}

// Escenario de desempaque: 5 tabletas sueltas + 1 caja de 10; salida de 15 tabletas
// -> 5 sueltas + desempacar la caja y tomar 10 del lote hijo.
func TestAllocate_DesempaqueDeCaja(t *testing.T) {
	suelto := testBatch("b1", "L1", 5, dayPtr(5))
	caja := boxBatch("b2", "L2", 1, dayPtr(10))

	res, err := stock.Allocate(allocInput(unitPieza, 15, false, suelto, caja))
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, int64(5), res.Records[0].Quantity)
	assert.False(t, res.Records[0].Unpacked)

	rec := res.Records[1]
	assert.True(t, rec.Unpacked, "la segunda toma viene de desempaque")
	assert.Equal(t, int64(10), rec.Quantity)
	assert.Equal(t, "b2", rec.ParentBatchID)
	assert.Equal(t, "caja", rec.ParentUnitName)
	assert.Equal(t, int64(0), rec.RemainingInChild)

	assert.Equal(t, int64(0), caja.QuantityOnHand, "la caja quedó en cero")
	assert.True(t, caja.IsUnpacked)
	require.NotNil(t, caja.UnpackedAt)
	assert.Equal(t, "tx-1", caja.UnpackedByTxID)

	require.Len(t, res.Created, 1)
	child := res.Created[0]
	assert.Equal(t, "L2-UNPACKED", child.LotNumber)
	assert.Equal(t, unitPieza.ID, child.ReceivedUnitID, "el hijo queda en unidad base")
	require.NotNil(t, child.ParentBatchID)
	assert.Equal(t, "b2", *child.ParentBatchID)
	assert.Equal(t, caja.ExpiryDate, child.ExpiryDate, "el hijo hereda el vencimiento del padre")
	assert.Equal(t, int64(0), child.QuantityOnHand)
}

// El desempaque deja resto en el lote hijo cuando el faltante no consume la
// presentación completa.
func TestAllocate_DesempaqueConResto(t *testing.T) {
	caja := boxBatch("b1", "L1", 2, dayPtr(10))

	res, err := stock.Allocate(allocInput(unitPieza, 3, false, caja))
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, int64(3), rec.Quantity)
	assert.Equal(t, int64(7), rec.RemainingInChild, "quedan 7 en el hijo tras abrir una caja de 10")

	assert.Equal(t, int64(10), caja.QuantityOnHand, "solo se abre una caja por paso")
	require.Len(t, res.Created, 1)
	assert.Equal(t, int64(7), res.Created[0].QuantityOnHand)

	// Conservación: el sistema solo perdió lo asignado.
	assert.Equal(t, int64(20-3), totalOnHand([]*entity.Batch{caja}, res.Created...))
}

// Desempacar dos veces el mismo padre acumula en el mismo lote hijo, nunca duplica.
func TestAllocate_DesempaqueIdempotenteMismoHijo(t *testing.T) {
	caja := boxBatch("b1", "L1", 3, dayPtr(10))

	res, err := stock.Allocate(allocInput(unitPieza, 14, false, caja))
	require.NoError(t, err)

	require.Len(t, res.Created, 1, "dos desempaques del mismo padre comparten un solo hijo")
	child := res.Created[0]
	assert.Equal(t, "L1-UNPACKED", child.LotNumber)
	assert.Equal(t, int64(6), child.QuantityOnHand, "20 desempacadas - 14 tomadas")
	assert.Equal(t, int64(10), caja.QuantityOnHand)
	assert.Equal(t, res.RequestedBase, res.Allocated())
}

// Si el lote hijo ya existe de un desempaque anterior persistido, su stock suelto
// se consume en fase 1 y los nuevos desempaques acumulan sobre él.
func TestAllocate_HijoExistenteSeReutiliza(t *testing.T) {
	caja := boxBatch("b1", "L1", 1, dayPtr(10))
	parentID := "b1"
	hijo := testBatch("b2", "L1-UNPACKED", 4, dayPtr(10))
	hijo.ParentBatchID = &parentID

	res, err := stock.Allocate(allocInput(unitPieza, 12, false, caja, hijo))
	require.NoError(t, err)

	assert.Empty(t, res.Created, "no debe crear un segundo hijo para el mismo lote")
	assert.Equal(t, int64(2), hijo.QuantityOnHand, "4 sueltas + 10 desempacadas - 12 tomadas")
	assert.Equal(t, int64(0), caja.QuantityOnHand)
	assert.Equal(t, res.RequestedBase, res.Allocated())
}

// La cascada abre primero la presentación más grande para minimizar desempaques.
func TestAllocate_PresentacionMayorPrimero(t *testing.T) {
	caja := boxBatch("b1", "CAJA", 5, dayPtr(10))
	display := testBatch("b2", "DISPLAY", 50, dayPtr(10))
	display.ReceivedUnitID = unitPallet.ID

	res, err := stock.Allocate(allocInput(unitPieza, 40, false, caja, display))
	require.NoError(t, err)

	require.NotEmpty(t, res.Records)
	assert.Equal(t, "display", res.Records[0].ParentUnitName,
		"debe desempacar el display (50) antes que cajas de 10")
	assert.Equal(t, int64(0), display.QuantityOnHand)
	assert.Equal(t, int64(50), caja.QuantityOnHand, "las cajas no se tocan")
	assert.Equal(t, res.RequestedBase, res.Allocated())
}

// Solicitar en caja consume lotes sueltos (base) en fase 1: las unidades base son
// fungibles para la cantidad.
func TestAllocate_SolicitudEnCajaConsumeSuelto(t *testing.T) {
	suelto := testBatch("b1", "L1", 25, dayPtr(5))

	res, err := stock.Allocate(allocInput(unitCaja, 2, false, suelto))
	require.NoError(t, err)

	assert.Equal(t, int64(20), res.RequestedBase, "2 cajas = 20 unidades base")
	assert.Equal(t, int64(5), suelto.QuantityOnHand)
	assert.Equal(t, res.RequestedBase, res.Allocated())
}

// Un lote vencido no se desempaca sin permiso; con allowExpired sí.
func TestAllocate_NoDesempacaVencidoSinPermiso(t *testing.T) {
	cajaVencida := boxBatch("b1", "VIEJA", 1, dayPtr(-5))
	suelto := testBatch("b2", "L2", 5, dayPtr(10))

	_, err := stock.Allocate(allocInput(unitPieza, 12, false, cajaVencida, suelto))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAllocationIncomplete,
		"sin poder tocar el vencido, un chequeo mal hecho termina en violación de invariante")
	// El chequeo de disponibilidad previo es quien debe impedir llegar aquí.

	cajaVencida2 := boxBatch("b3", "VIEJA2", 1, dayPtr(-5))
	suelto2 := testBatch("b4", "L4", 5, dayPtr(10))
	res, err := stock.Allocate(allocInput(unitPieza, 12, true, cajaVencida2, suelto2))
	require.NoError(t, err)
	assert.True(t, cajaVencida2.IsUnpacked, "con allowExpired el vencido se desempaca")
	assert.Equal(t, res.RequestedBase, res.Allocated())
}

// Propiedad de no negatividad y conservación del libro: tras cualquier asignación
// exitosa ningún lote queda negativo y el stock total cae exactamente lo asignado.
func TestAllocate_ConservacionYNoNegatividad(t *testing.T) {
	casos := []struct {
		nombre string
		unit   *entity.Unit
		qty    int64
	}{
		{"salida chica en base", unitPieza, 3},
		{"salida con desempaque", unitPieza, 47},
		{"salida en cajas", unitCaja, 6},
	}

	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			batches := []*entity.Batch{
				testBatch("b1", "L1", 8, dayPtr(3)),
				boxBatch("b2", "L2", 4, dayPtr(8)),
				testBatch("b3", "L3", 12, nil),
				boxBatch("b4", "L4", 2, dayPtr(15)),
			}
			antes := totalOnHand(batches)

			res, err := stock.Allocate(allocInput(tc.unit, tc.qty, false, batches...))
			require.NoError(t, err)

			despues := totalOnHand(batches, res.Created...)
			assert.Equal(t, antes-res.RequestedBase, despues,
				"conservación: lo que salió del libro es exactamente lo asignado")
			for _, b := range batches {
				assert.GreaterOrEqual(t, b.QuantityOnHand, int64(0), "lote %s negativo", b.LotNumber)
			}
			for _, b := range res.Created {
				assert.GreaterOrEqual(t, b.QuantityOnHand, int64(0), "hijo %s negativo", b.LotNumber)
			}
			assert.Equal(t, res.RequestedBase, res.Allocated())
		})
	}
}

// Cada paso de desempaque es suma cero: el padre pierde exactamente la tasa de
// conversión y el hijo la gana.
func TestAllocate_DesempaqueSumaCero(t *testing.T) {
	caja := boxBatch("b1", "L1", 1, dayPtr(10))
	antes := caja.QuantityOnHand

	res, err := stock.Allocate(allocInput(unitPieza, 4, false, caja))
	require.NoError(t, err)

	require.Len(t, res.Created, 1)
	child := res.Created[0]
	perdidaPadre := antes - caja.QuantityOnHand
	gananciaHijo := child.QuantityOnHand + res.Records[0].Quantity
	assert.Equal(t, unitCaja.ConversionRateToBase, perdidaPadre)
	assert.Equal(t, unitCaja.ConversionRateToBase, gananciaHijo)
}

// FEFO entre padres desempacables: se abre primero el que vence antes.
func TestAllocate_DesempaqueRespetaFEFO(t *testing.T) {
	cajaTardia := boxBatch("b1", "TARDIA", 1, dayPtr(30))
	cajaProxima := boxBatch("b2", "PROXIMA", 1, dayPtr(3))

	res, err := stock.Allocate(allocInput(unitPieza, 5, false, cajaTardia, cajaProxima))
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "b2", res.Records[0].ParentBatchID,
		"debe desempacar primero la caja que vence antes")
	assert.True(t, cajaProxima.IsUnpacked)
	assert.False(t, cajaTardia.IsUnpacked)
}

func TestAllocate_EntradaInvalida(t *testing.T) {
	_, err := stock.Allocate(allocInput(unitPieza, 0, false))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero no es asignable")

	in := allocInput(unitPieza, 5, false)
	in.RequestedUnit = nil
	_, err = stock.Allocate(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Violación de invariante: faltante tras ambas fases nunca es éxito parcial.
func TestAllocate_FaltanteEsViolacionDeInvariante(t *testing.T) {
	b1 := testBatch("b1", "L1", 5, dayPtr(5))

	_, err := stock.Allocate(allocInput(unitPieza, 9, false, b1))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAllocationIncomplete)
	// Nota: el orquestador corre CalculateAvailability antes; llegar aquí es un bug.
}
