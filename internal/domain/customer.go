package domain

import (
	"context"
	"time"
)

// Customer é o cliente final da loja.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerFilter define a paginação da listagem de clientes.
type CustomerFilter struct {
	Page  int
	Limit int
	Name  string
}

// CustomerRepository é o contrato de persistência de clientes.
type CustomerRepository interface {
	Save(ctx context.Context, customer Customer) (Customer, error)
	FindByID(ctx context.Context, id string) (Customer, error)
	FindAll(ctx context.Context, filter CustomerFilter) ([]Customer, error)
	Exists(ctx context.Context, id string) (bool, error)
}
