package repository

import "github.com/jhoicas/clinica-stock/internal/domain/entity"

// EmployeeRepository define el puerto de persistencia para empleados.
type EmployeeRepository interface {
	GetByID(id string) (*entity.Employee, error)
	GetByUsername(username string) (*entity.Employee, error)
}
