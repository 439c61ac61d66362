package repository

import "github.com/jhoicas/clinica-stock/internal/domain/entity"

// ItemRepository define el puerto de persistencia para insumos.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByCode(code string) (*entity.Item, error)
	List(search string, limit, offset int) ([]*entity.Item, error)
}
