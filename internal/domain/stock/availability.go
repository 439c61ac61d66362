package stock

import (
	"time"

	"github.com/jhoicas/clinica-stock/internal/domain"
	"github.com/jhoicas/clinica-stock/internal/domain/entity"
)

// Availability es el desglose de stock disponible de un insumo en unidades base.
type Availability struct {
	Total      int64
	NonExpired int64
	Expired    int64
}

// CalculateAvailability suma quantity_on_hand de los lotes con cantidad positiva,
// separando por vencimiento respecto a today. Lectura pura, sin mutación.
func CalculateAvailability(batches []*entity.Batch, today time.Time) Availability {
	var a Availability
	for _, b := range batches {
		if b.QuantityOnHand <= 0 {
			continue
		}
		a.Total += b.QuantityOnHand
		if b.IsExpired(today) {
			a.Expired += b.QuantityOnHand
		} else {
			a.NonExpired += b.QuantityOnHand
		}
	}
	return a
}

// Check verifica que la disponibilidad alcance para requestedBase unidades base.
// Debe ejecutarse ANTES de asignar, para fallar sin haber mutado nada.
// Devuelve InsufficientStockError si el total no alcanza, y OnlyExpiredStockError
// si solo queda stock vencido y la operación no permite consumirlo.
func (a Availability) Check(itemID string, requestedBase int64, allowExpired bool) error {
	if a.Total < requestedBase {
		return &domain.InsufficientStockError{
			ItemID:     itemID,
			Requested:  requestedBase,
			Total:      a.Total,
			NonExpired: a.NonExpired,
			Expired:    a.Expired,
		}
	}
	if !allowExpired {
		if a.NonExpired == 0 && a.Expired > 0 {
			return &domain.OnlyExpiredStockError{ItemID: itemID, Requested: requestedBase, Expired: a.Expired}
		}
		if a.NonExpired < requestedBase {
			// el total alcanza solo contando vencidos que no se pueden consumir
			return &domain.InsufficientStockError{
				ItemID:     itemID,
				Requested:  requestedBase,
				Total:      a.Total,
				NonExpired: a.NonExpired,
				Expired:    a.Expired,
			}
		}
	}
	return nil
}
