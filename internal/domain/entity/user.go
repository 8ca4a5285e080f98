package entity

import (
	"fmt"
	"time"
)

// Role nivel de permiso de un usuario. Conjunto cerrado: solo ParseRole crea valores válidos.
type Role string

// Roles válidos para User.
const (
	RoleSupervisor Role = "Supervisor"
	RoleCashier    Role = "Cashier"
	RoleUser       Role = "User"
)

// Roles devuelve el conjunto completo, en orden de privilegio.
func Roles() []Role {
	return []Role{RoleSupervisor, RoleCashier, RoleUser}
}

// ParseRole convierte un string en Role; cualquier valor fuera del conjunto es error.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSupervisor, RoleCashier, RoleUser:
		return Role(s), nil
	default:
		return "", fmt.Errorf("rol desconocido %q", s)
	}
}

// Valid indica si r pertenece al conjunto reconocido.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Privileged solo Supervisor administra usuarios y corrige productos.
func (r Role) Privileged() bool {
	switch r {
	case RoleSupervisor:
		return true
	case RoleCashier, RoleUser:
		return false
	default:
		return false
	}
}

// In indica si r está en allowed. Un rol fuera del conjunto nunca pertenece.
func (r Role) In(allowed ...Role) bool {
	switch r {
	case RoleSupervisor, RoleCashier, RoleUser:
	default:
		return false
	}
	for _, a := range allowed {
		if a == r {
			return true
		}
	}
	return false
}

// User representa a un usuario del sistema (tabla users).
type User struct {
	ID           string
	Name         string // nome
	Login        string // matricula, única
	PasswordHash string // bcrypt; nunca se serializa
	Role         Role   // nivel
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
