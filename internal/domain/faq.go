package domain

import (
	"context"
	"time"
)

// FAQ é uma pergunta frequente publicada no site da loja.
type FAQ struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Slug      string    `json:"slug"`
	Category  string    `json:"category,omitempty"`
	Position  int       `json:"position"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FAQInput é o payload de criação/atualização de FAQ.
type FAQInput struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Category  string `json:"category,omitempty"`
	Position  int    `json:"position"`
	Published bool   `json:"published"`
}

// FAQRepository é o contrato de persistência de FAQs.
// Save e Update retornam ConflictError quando o slug já existe.
type FAQRepository interface {
	Save(ctx context.Context, faq FAQ) (FAQ, error)
	FindByID(ctx context.Context, id string) (FAQ, error)
	FindBySlug(ctx context.Context, slug string) (FAQ, error)
	FindAll(ctx context.Context, publishedOnly bool) ([]FAQ, error)
	Update(ctx context.Context, faq FAQ) (FAQ, error)
	Delete(ctx context.Context, id string) error
}
