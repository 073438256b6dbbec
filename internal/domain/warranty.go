package domain

import (
	"context"
	"time"
)

// WarrantyType é um modelo de garantia oferecido pela loja.
// DurationMonths igual a 0 significa garantia vitalícia.
type WarrantyType struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	DurationMonths int              `json:"duration_months"`
	Coverage       WarrantyCoverage `json:"coverage"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// IsLifetime informa se o tipo não expira.
func (t WarrantyType) IsLifetime() bool {
	return t.DurationMonths == 0
}

// WarrantyCoverage descreve o que a garantia cobre. Persistido como JSONB.
type WarrantyCoverage struct {
	Parts      bool     `json:"parts"`
	Labor      bool     `json:"labor"`
	Accidental bool     `json:"accidental"`
	Exclusions []string `json:"exclusions,omitempty"`
}

// WarrantyStatus é derivado da data de término no momento da leitura.
type WarrantyStatus string

const (
	WarrantyStatusActive  WarrantyStatus = "Active"
	WarrantyStatusExpired WarrantyStatus = "Expired"
)

// Warranty é uma garantia emitida para um cliente sobre um item.
type Warranty struct {
	ID             string         `json:"id"`
	WarrantyTypeID string         `json:"warranty_type_id"`
	CustomerID     string         `json:"customer_id"`
	ItemID         string         `json:"item_id"`
	StartDate      time.Time      `json:"start_date"`
	EndDate        *time.Time     `json:"end_date,omitempty"` // nil para vitalícia
	Status         WarrantyStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// WarrantyEndDate calcula a data de término a partir do início e da duração em meses.
// Retorna nil para duração 0 (vitalícia).
func WarrantyEndDate(start time.Time, durationMonths int) *time.Time {
	if durationMonths <= 0 {
		return nil
	}
	end := start.AddDate(0, durationMonths, 0)
	return &end
}

// StatusAt deriva o status da garantia no instante informado.
func (w Warranty) StatusAt(now time.Time) WarrantyStatus {
	if w.EndDate == nil || now.Before(*w.EndDate) {
		return WarrantyStatusActive
	}
	return WarrantyStatusExpired
}

// WarrantyInput é o payload de criação/atualização de garantia.
type WarrantyInput struct {
	WarrantyTypeID string     `json:"warranty_type_id"`
	CustomerID     string     `json:"customer_id"`
	ItemID         string     `json:"item_id"`
	StartDate      *time.Time `json:"start_date,omitempty"`
}

// WarrantyTypeRepository é o contrato de persistência dos tipos de garantia.
type WarrantyTypeRepository interface {
	Save(ctx context.Context, wt WarrantyType) (WarrantyType, error)
	FindByID(ctx context.Context, id string) (WarrantyType, error)
	FindAll(ctx context.Context) ([]WarrantyType, error)
	Update(ctx context.Context, wt WarrantyType) (WarrantyType, error)
	Delete(ctx context.Context, id string) error
}

// WarrantyRepository é o contrato de persistência das garantias emitidas.
type WarrantyRepository interface {
	Save(ctx context.Context, w Warranty) (Warranty, error)
	FindByID(ctx context.Context, id string) (Warranty, error)
	FindByCustomer(ctx context.Context, customerID string) ([]Warranty, error)
	Update(ctx context.Context, w Warranty) (Warranty, error)
}
