package stock

import (
	"sort"
	"time"

	"github.com/jhoicas/clinica-stock/internal/domain"
	"github.com/jhoicas/clinica-stock/internal/domain/entity"
)

// AllocationRecord es una toma de stock sobre un lote concreto (transitorio, no se
// persiste directo: se materializa en renglones de transacción).
type AllocationRecord struct {
	Batch    *entity.Batch
	Quantity int64 // unidades base tomadas de este lote

	// Procedencia de desempaque, solo si la toma vino de un lote hijo recién alimentado.
	Unpacked         bool
	ParentBatchID    string
	ParentUnitName   string
	RemainingInChild int64 // lo que quedó en el lote hijo tras esta toma
}

// AllocationInput agrupa la entrada del motor de asignación. Batches debe contener
// todos los lotes con stock del insumo, ya bloqueados por el caller; el motor los
// muta en memoria (cantidades, marcas de desempaque) y el caller persiste.
type AllocationInput struct {
	Item          *entity.Item
	Units         []*entity.Unit // todas las unidades del insumo
	RequestedUnit *entity.Unit
	RequestedQty  int64
	Batches       []*entity.Batch
	AllowExpired  bool
	Today         time.Time
	Now           time.Time
	TransactionID string
}

// AllocationResult es la salida del motor: registros en orden de consumo, lotes
// existentes mutados y lotes hijos creados por desempaque (sin ID; lo asigna la
// persistencia).
type AllocationResult struct {
	RequestedBase int64
	Records       []*AllocationRecord
	Updated       []*entity.Batch
	Created       []*entity.Batch
}

// Allocated devuelve el total de unidades base asignadas.
func (r *AllocationResult) Allocated() int64 {
	var sum int64
	for _, rec := range r.Records {
		sum += rec.Quantity
	}
	return sum
}

// Allocate consume requestedQty de la unidad solicitada contra los lotes del insumo.
//
// Fase 1 (consumo suelto): recorre la lista FEFO tomando de los lotes cuya
// presentación de ingreso es igual o menor a la solicitada.
//
// Fase 2 (cascada de desempaque): si queda faltante, desempaca de a una presentación
// completa de los lotes ingresados en unidades mayores, de la presentación más
// grande a la más chica para minimizar desempaques. Cada paso es suma cero: el
// padre pierde exactamente ConversionRateToBase unidades base y el lote hijo
// ("<lote>-UNPACKED") gana lo mismo.
//
// Si tras ambas fases queda faltante pese a un chequeo de disponibilidad exitoso,
// devuelve ErrAllocationIncomplete: es violación de invariante, nunca éxito parcial.
func Allocate(in AllocationInput) (*AllocationResult, error) {
	if in.RequestedQty <= 0 || in.RequestedUnit == nil || in.RequestedUnit.ConversionRateToBase < 1 {
		return nil, domain.ErrInvalidInput
	}

	requestedBase := in.RequestedQty * in.RequestedUnit.ConversionRateToBase
	res := &AllocationResult{RequestedBase: requestedBase}
	remaining := requestedBase

	rates := unitRates(in.Units)
	fefo := OrderFEFO(in.Batches, in.AllowExpired, in.Today)
	updated := map[string]*entity.Batch{}

	// Fase 1: stock ya en presentación igual o menor a la solicitada.
	for _, b := range fefo {
		if remaining == 0 {
			break
		}
		if rates[b.ReceivedUnitID] > in.RequestedUnit.ConversionRateToBase {
			continue
		}
		take := min64(remaining, b.QuantityOnHand)
		if take == 0 {
			continue
		}
		b.QuantityOnHand -= take
		remaining -= take
		updated[b.ID] = b
		res.Records = append(res.Records, &AllocationRecord{Batch: b, Quantity: take})
	}

	// Fase 2: desempaque de presentaciones mayores.
	if remaining > 0 {
		var err error
		remaining, err = unpackCascade(in, fefo, rates, updated, res, remaining)
		if err != nil {
			return nil, err
		}
	}

	if remaining > 0 {
		// La disponibilidad ya había pasado: esto es un bug, no un error de negocio.
		return nil, domain.ErrAllocationIncomplete
	}

	for _, b := range updated {
		res.Updated = append(res.Updated, b)
	}
	sort.Slice(res.Updated, func(i, j int) bool { return res.Updated[i].ID < res.Updated[j].ID })
	return res, nil
}

// unpackCascade abre presentaciones mayores hasta cubrir el faltante o agotar el
// stock desempacable. Devuelve el faltante restante.
func unpackCascade(
	in AllocationInput,
	fefo []*entity.Batch,
	rates map[string]int64,
	updated map[string]*entity.Batch,
	res *AllocationResult,
	remaining int64,
) (int64, error) {
	baseUnit := findBaseUnit(in.Units)
	if baseUnit == nil {
		return remaining, domain.ErrUnitNotFound
	}

	// Presentaciones mayores a la solicitada, de mayor a menor.
	larger := make([]*entity.Unit, 0, len(in.Units))
	for _, u := range in.Units {
		if u.ConversionRateToBase > in.RequestedUnit.ConversionRateToBase {
			larger = append(larger, u)
		}
	}
	sort.Slice(larger, func(i, j int) bool {
		return larger[i].ConversionRateToBase > larger[j].ConversionRateToBase
	})

	for _, u := range larger {
		if remaining == 0 {
			break
		}
		for _, parent := range fefo {
			if remaining == 0 {
				break
			}
			if parent.ReceivedUnitID != u.ID {
				continue
			}
			for remaining > 0 && parent.QuantityOnHand >= u.ConversionRateToBase {
				// Abrir exactamente una presentación del padre.
				parent.QuantityOnHand -= u.ConversionRateToBase
				parent.IsUnpacked = true
				now := in.Now
				parent.UnpackedAt = &now
				parent.UnpackedByTxID = in.TransactionID
				updated[parent.ID] = parent

				child := findOrCreateChild(parent, baseUnit, in, res, updated)
				child.QuantityOnHand += u.ConversionRateToBase
				child.InitialQuantity += u.ConversionRateToBase

				take := min64(remaining, child.QuantityOnHand)
				child.QuantityOnHand -= take
				remaining -= take
				res.Records = append(res.Records, &AllocationRecord{
					Batch:            child,
					Quantity:         take,
					Unpacked:         true,
					ParentBatchID:    parent.ID,
					ParentUnitName:   u.Name,
					RemainingInChild: child.QuantityOnHand,
				})
			}
		}
	}
	return remaining, nil
}

// findOrCreateChild busca el lote hijo "<lote>-UNPACKED" del padre entre los lotes
// existentes y los ya creados en esta asignación; si no existe lo crea heredando
// vencimiento, proveedor y ubicación. Desempacar dos veces el mismo padre acumula
// siempre en el mismo hijo.
func findOrCreateChild(
	parent *entity.Batch,
	baseUnit *entity.Unit,
	in AllocationInput,
	res *AllocationResult,
	updated map[string]*entity.Batch,
) *entity.Batch {
	childLot := parent.UnpackedLot()
	for _, b := range in.Batches {
		if b.LotNumber == childLot {
			updated[b.ID] = b
			return b
		}
	}
	for _, b := range res.Created {
		if b.LotNumber == childLot {
			return b
		}
	}
	parentID := parent.ID
	child := &entity.Batch{
		ItemID:         parent.ItemID,
		LotNumber:      childLot,
		ReceivedUnitID: baseUnit.ID,
		ExpiryDate:     parent.ExpiryDate,
		SupplierID:     parent.SupplierID,
		BinLocation:    parent.BinLocation,
		ParentBatchID:  &parentID,
		ImportedAt:     parent.ImportedAt,
		CreatedAt:      in.Now,
	}
	res.Created = append(res.Created, child)
	return child
}

func unitRates(units []*entity.Unit) map[string]int64 {
	m := make(map[string]int64, len(units))
	for _, u := range units {
		m[u.ID] = u.ConversionRateToBase
	}
	return m
}

func findBaseUnit(units []*entity.Unit) *entity.Unit {
	for _, u := range units {
		if u.IsBaseUnit {
			return u
		}
	}
	return nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
