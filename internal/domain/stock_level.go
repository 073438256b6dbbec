package domain

import "time"

// StockLevel representa o nível de estoque de uma variação em uma loja.
// Inclui uma coluna 'version' para controle de concorrência otimista.
type StockLevel struct {
	ID         string    `json:"id"`
	VariantID  string    `json:"variant_id"`
	LocationID string    `json:"location_id"`
	Quantity   int       `json:"quantity"`
	Version    int       `json:"version"` // Para Controle de Concorrência Otimista (OCC)
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StockAdjustmentRequest é o payload esperado para um ajuste de estoque.
type StockAdjustmentRequest struct {
	VariantID   string `json:"variant_id"`
	LocationID  string `json:"location_id"`
	Delta       int    `json:"delta"`  // Quantidade a ser adicionada/removida
	Reason      string `json:"reason"` // Motivo registrado no histórico
	ReferenceID string `json:"reference_id,omitempty"`
}

// StockMovement é uma linha do histórico do ledger de estoque.
type StockMovement struct {
	ID            string    `json:"id"`
	VariantID     string    `json:"variant_id"`
	LocationID    string    `json:"location_id"`
	Delta         int       `json:"delta"`
	QuantityAfter int       `json:"quantity_after"`
	Reason        string    `json:"reason"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
