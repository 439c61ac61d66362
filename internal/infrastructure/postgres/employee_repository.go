package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/clinica-stock/internal/domain/entity"
	"github.com/jhoicas/clinica-stock/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo implementación de EmployeeRepository sobre PostgreSQL (usable con pool o tx).
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador de empleados. Pasar pool o tx (Querier).
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

// GetByID obtiene un empleado por ID. nil si no existe.
func (r *EmployeeRepo) GetByID(id string) (*entity.Employee, error) {
	return r.getBy("id", id)
}

// GetByUsername obtiene un empleado por username (para login). nil si no existe.
func (r *EmployeeRepo) GetByUsername(username string) (*entity.Employee, error) {
	return r.getBy("username", username)
}

func (r *EmployeeRepo) getBy(column, value string) (*entity.Employee, error) {
	query := fmt.Sprintf(`
		SELECT id, username, password_hash, name, role, is_active, created_at, updated_at
		FROM employees WHERE %s = $1`, column)
	var e entity.Employee
	err := r.q.QueryRow(context.Background(), query, value).Scan(
		&e.ID, &e.Username, &e.PasswordHash, &e.Name, &e.Role, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &e, nil
}
