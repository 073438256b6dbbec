package domain

import (
	"context"
	"time"
)

// Item representa o item principal do catálogo da loja.
type Item struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"` // Stock Keeping Unit (código único do item)
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Variations []Variation `json:"variations"`
}

// Variation representa uma variação de um Item (e.g., cor, tamanho).
// O estoque é controlado a nível de Variation.
type Variation struct {
	ID        string  `json:"id"`
	ItemID    string  `json:"item_id"`
	Attribute string  `json:"attribute"` // Ex: "Tamanho"
	Value     string  `json:"value"`     // Ex: "M"
	Barcode   string  `json:"barcode"`
	PriceDiff float64 `json:"price_diff"`
}

// ItemFilter define os parâmetros de busca e paginação de itens.
type ItemFilter struct {
	Page       int
	Limit      int
	Name       string
	SKU        string
	ActiveOnly bool
}

// ItemRepository é o contrato de persistência do catálogo.
type ItemRepository interface {
	Save(ctx context.Context, item Item) (Item, error)
	FindByID(ctx context.Context, id string) (Item, error)
	FindAll(ctx context.Context, filter ItemFilter) ([]Item, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// ExistenceChecker responde se uma entidade referenciada existe.
type ExistenceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}
