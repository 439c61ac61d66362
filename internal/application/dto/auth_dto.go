package dto

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token emitido tras autenticación exitosa.
type LoginResponse struct {
	Token     string `json:"token"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ExpiresIn int    `json:"expires_in"` // segundos
}
