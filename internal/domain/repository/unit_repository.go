package repository

import "github.com/jhoicas/clinica-stock/internal/domain/entity"

// UnitRepository define el puerto de persistencia para unidades de medida.
type UnitRepository interface {
	Create(unit *entity.Unit) error
	GetByID(id string) (*entity.Unit, error)
	// ListByItem devuelve las unidades del insumo ordenadas por display_order.
	ListByItem(itemID string) ([]*entity.Unit, error)
}
