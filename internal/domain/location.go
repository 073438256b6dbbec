package domain

import (
	"context"
	"time"
)

// StoreLocation representa uma loja física.
type StoreLocation struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Address          string      `json:"address"`
	Phone            string      `json:"phone"`
	Hours            []DayHours  `json:"hours"`
	SocialLinks      SocialLinks `json:"social_links"`
	SquareLocationID string      `json:"square_location_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// DayHours é o horário de funcionamento de um dia da semana.
type DayHours struct {
	Day    string `json:"day"`             // "monday" ... "sunday"
	Open   string `json:"open,omitempty"`  // "09:00"
	Close  string `json:"close,omitempty"` // "18:00"
	Closed bool   `json:"closed"`
}

// SocialLinks agrupa os perfis públicos da loja.
type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Website   string `json:"website,omitempty"`
}

// LocationInput é o payload de criação/atualização de uma loja.
type LocationInput struct {
	Name             string      `json:"name"`
	Address          string      `json:"address"`
	Phone            string      `json:"phone"`
	Hours            []DayHours  `json:"hours"`
	SocialLinks      SocialLinks `json:"social_links"`
	SquareLocationID string      `json:"square_location_id,omitempty"`
}

// LocationRepository é o contrato de persistência de lojas.
type LocationRepository interface {
	Save(ctx context.Context, location StoreLocation) (StoreLocation, error)
	FindByID(ctx context.Context, id string) (StoreLocation, error)
	FindAll(ctx context.Context) ([]StoreLocation, error)
	Update(ctx context.Context, location StoreLocation) (StoreLocation, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
