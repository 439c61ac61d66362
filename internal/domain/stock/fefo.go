// Package stock implementa el motor de asignación de lotes: selección FEFO
// (primero vence, primero sale), chequeo de disponibilidad, asignación multi-lote
// con cascada de desempaque, valoración financiera y advertencias de vencimiento.
// Es un servicio de dominio puro: opera en memoria sobre lotes ya cargados (y
// bloqueados) por el caller; la persistencia de las mutaciones es responsabilidad
// del caso de uso.
package stock

import (
	"sort"
	"time"

	"github.com/jhoicas/clinica-stock/internal/domain/entity"
)

// OrderFEFO devuelve los lotes ordenados para consumo: solo cantidad positiva,
// vencidos excluidos salvo allowExpired, ascendente por vencimiento con los lotes
// sin fecha al final. Empates se resuelven por fecha de creación y luego por ID
// para que la selección sea determinista. No muta la lista de entrada.
func OrderFEFO(batches []*entity.Batch, allowExpired bool, today time.Time) []*entity.Batch {
	out := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.QuantityOnHand <= 0 {
			continue
		}
		if !allowExpired && b.IsExpired(today) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := out[i], out[j]
		switch {
		case bi.ExpiryDate == nil && bj.ExpiryDate == nil:
			// ambos sin vencimiento: por llegada
		case bi.ExpiryDate == nil:
			return false
		case bj.ExpiryDate == nil:
			return true
		case !bi.ExpiryDate.Equal(*bj.ExpiryDate):
			return bi.ExpiryDate.Before(*bj.ExpiryDate)
		}
		if !bi.CreatedAt.Equal(bj.CreatedAt) {
			return bi.CreatedAt.Before(bj.CreatedAt)
		}
		return bi.ID < bj.ID
	})
	return out
}
