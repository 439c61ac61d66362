package repository

import (
	"time"

	"github.com/jhoicas/clinica-stock/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes.
// Las mutaciones de cantidad deben ocurrir dentro de una transacción de BD con las
// filas bloqueadas (ListForUpdateByItem / GetByItemAndLotForUpdate), para serializar
// los movimientos concurrentes por insumo.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	Update(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// ListByItem devuelve los lotes con stock positivo del insumo, orden ascendente
	// por vencimiento (nulls al final) y fecha de creación. Lectura pura.
	ListByItem(itemID string) ([]*entity.Batch, error)
	// ListForUpdateByItem igual que ListByItem pero bloquea las filas (SELECT FOR UPDATE).
	ListForUpdateByItem(itemID string) ([]*entity.Batch, error)
	// GetByItemAndLotForUpdate obtiene un lote por insumo y número de lote, bloqueando
	// la fila. Devuelve nil si no existe.
	GetByItemAndLotForUpdate(itemID, lotNumber string) (*entity.Batch, error)
	// TotalOnHandByItem devuelve la suma de quantity_on_hand de los lotes del insumo.
	// El total por insumo se deriva siempre de los lotes, no se almacena aparte.
	TotalOnHandByItem(itemID string) (int64, error)
	// ListNearExpiry devuelve lotes con stock positivo que vencen dentro de la ventana.
	ListNearExpiry(until time.Time) ([]*entity.Batch, error)
}
