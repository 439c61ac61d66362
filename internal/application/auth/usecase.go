package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/clinica-stock/internal/application/dto"
	"github.com/jhoicas/clinica-stock/internal/domain"
	"github.com/jhoicas/clinica-stock/internal/domain/repository"
	"github.com/jhoicas/clinica-stock/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase autenticación de empleados: login con bcrypt + emisión de JWT.
type AuthUseCase struct {
	employeeRepo repository.EmployeeRepository
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(employeeRepo repository.EmployeeRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{employeeRepo: employeeRepo, jwtCfg: jwtCfg}
}

// Login verifica credenciales contra el hash bcrypt y devuelve un token firmado.
// Devuelve ErrUnauthorized tanto para usuario inexistente como para contraseña
// incorrecta, sin distinguir.
func (uc *AuthUseCase) Login(_ context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	employee, err := uc.employeeRepo.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if employee == nil || !employee.IsActive {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, employee.ID, employee.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		Name:      employee.Name,
		Role:      employee.Role,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
	}, nil
}
