package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/clinica-stock/internal/domain"
	"github.com/jhoicas/clinica-stock/internal/domain/entity"
	"github.com/jhoicas/clinica-stock/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de insumos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un insumo nuevo. El código es único.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, code, name, description, min_stock, max_stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Code, item.Name, item.Description, item.MinStock, item.MaxStock,
		item.IsActive, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateItemCode
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo por ID. nil si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `
		SELECT id, code, name, description, min_stock, max_stock, is_active, created_at, updated_at
		FROM items WHERE id = $1`
	var it entity.Item
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&it.ID, &it.Code, &it.Name, &it.Description, &it.MinStock, &it.MaxStock,
		&it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// GetByCode obtiene un insumo por código. nil si no existe.
func (r *ItemRepo) GetByCode(code string) (*entity.Item, error) {
	query := `
		SELECT id, code, name, description, min_stock, max_stock, is_active, created_at, updated_at
		FROM items WHERE code = $1`
	var it entity.Item
	err := r.q.QueryRow(context.Background(), query, code).Scan(
		&it.ID, &it.Code, &it.Name, &it.Description, &it.MinStock, &it.MaxStock,
		&it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by code: %w", err)
	}
	return &it, nil
}

// List lista insumos con búsqueda opcional por código o nombre, paginado.
func (r *ItemRepo) List(search string, limit, offset int) ([]*entity.Item, error) {
	query := `
		SELECT id, code, name, description, min_stock, max_stock, is_active, created_at, updated_at
		FROM items`
	args := []any{}
	pos := 1
	if search != "" {
		query += fmt.Sprintf(" WHERE code ILIKE $%d OR name ILIKE $%d", pos, pos)
		args = append(args, "%"+search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY code ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.Code, &it.Name, &it.Description, &it.MinStock,
			&it.MaxStock, &it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
