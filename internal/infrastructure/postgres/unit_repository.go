package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/clinica-stock/internal/domain/entity"
	"github.com/jhoicas/clinica-stock/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo implementación de UnitRepository sobre PostgreSQL (usable con pool o tx).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador de unidades. Pasar pool o tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// Create persiste una presentación de un insumo.
func (r *UnitRepo) Create(unit *entity.Unit) error {
	query := `
		INSERT INTO item_units (id, item_id, name, conversion_rate_to_base, is_base_unit, display_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.ItemID, unit.Name, unit.ConversionRateToBase, unit.IsBaseUnit,
		unit.DisplayOrder, unit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por ID. nil si no existe.
func (r *UnitRepo) GetByID(id string) (*entity.Unit, error) {
	query := `
		SELECT id, item_id, name, conversion_rate_to_base, is_base_unit, display_order, created_at
		FROM item_units WHERE id = $1`
	var u entity.Unit
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&u.ID, &u.ItemID, &u.Name, &u.ConversionRateToBase, &u.IsBaseUnit, &u.DisplayOrder, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

// ListByItem lista las presentaciones del insumo ordenadas por display_order.
func (r *UnitRepo) ListByItem(itemID string) ([]*entity.Unit, error) {
	query := `
		SELECT id, item_id, name, conversion_rate_to_base, is_base_unit, display_order, created_at
		FROM item_units WHERE item_id = $1
		ORDER BY display_order ASC`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.ItemID, &u.Name, &u.ConversionRateToBase,
			&u.IsBaseUnit, &u.DisplayOrder, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
