package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Name     string `json:"nome"`
	Login    string `json:"matricula"`
	Password string `json:"senha"`
	Role     string `json:"nivel"`
}

// UpdateUserRequest actualización parcial. Un usuario sin privilegios solo puede enviar Name.
type UpdateUserRequest struct {
	Name     *string `json:"nome"`
	Login    *string `json:"matricula"`
	Password *string `json:"senha"`
	Role     *string `json:"nivel"`
}

// ChangePasswordRequest cambio de contraseña propia.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"senhaAtual"`
	NewPassword     string `json:"novaSenha"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"nome"`
	Login     string     `json:"matricula"`
	Role      string     `json:"nivel"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Login    string `json:"matricula"`
	Password string `json:"senha"`
}

// LoginResponse token de sesión y nombre para mostrar.
type LoginResponse struct {
	Token     string    `json:"token"`
	Name      string    `json:"nome"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IdentityResponse identidad resuelta del token (GET /api/users/me).
type IdentityResponse struct {
	UserID string `json:"id"`
	Login  string `json:"matricula"`
	Role   string `json:"nivel"`
}
