package entity

import "time"

// Roles válidos para Employee.
const (
	RoleAdmin      = "admin"
	RoleFarmaceuta = "farmaceuta"
	RoleAsistente  = "asistente"
)

// Employee representa un empleado de la clínica que registra movimientos de stock.
type Employee struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, farmaceuta, asistente
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
