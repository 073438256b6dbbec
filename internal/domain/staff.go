package domain

import (
	"context"
	"time"
)

// Staff representa um funcionário que opera o painel.
type Staff struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         StaffRole `json:"role"`
	LocationID   string    `json:"location_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StaffRole é o papel do funcionário no sistema.
type StaffRole string

const (
	RoleAdmin   StaffRole = "admin"
	RoleManager StaffRole = "manager"
	RoleStaff   StaffRole = "staff"
)

// Valid informa se o papel é conhecido.
func (r StaffRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// StaffRegistration representa o payload de entrada para o registro.
type StaffRegistration struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	Role       StaffRole `json:"role"`
	LocationID string    `json:"location_id,omitempty"`
}

// LoginRequest é o payload do login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carrega o JWT emitido.
type LoginResponse struct {
	Token string `json:"token"`
}

// StaffRepository define o contrato de persistência para a entidade Staff.
type StaffRepository interface {
	Save(ctx context.Context, staff Staff) (Staff, error)
	FindByEmail(ctx context.Context, email string) (Staff, error)
	FindByID(ctx context.Context, id string) (Staff, error)
	FindAll(ctx context.Context) ([]Staff, error)
	Exists(ctx context.Context, id string) (bool, error)
}
