package faqservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
)

// maxSlugAttempts limita as tentativas de sufixo (-2 ... -5).
const maxSlugAttempts = 5

// Service implementa as FAQs públicas da loja.
type Service struct {
	repo   domain.FAQRepository
	logger logger.Logger
}

// NewService cria o serviço de FAQs.
func NewService(repo domain.FAQRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func validate(in domain.FAQInput) error {
	if strings.TrimSpace(in.Question) == "" || strings.TrimSpace(in.Answer) == "" {
		return apperror.NewValidationError("Pergunta e resposta são obrigatórias.")
	}
	if in.Position < 0 {
		return apperror.NewValidationError("A posição não pode ser negativa.")
	}
	if slug.Make(in.Question) == "" {
		return apperror.NewValidationError("A pergunta precisa conter letras ou números.")
	}
	return nil
}

// Create grava a FAQ com slug derivado da pergunta.
func (s *Service) Create(ctx context.Context, in domain.FAQInput) (domain.FAQ, error) {
	if err := validate(in); err != nil {
		return domain.FAQ{}, err
	}

	now := time.Now().UTC()
	f := domain.FAQ{
		ID:        uuid.New().String(),
		Question:  strings.TrimSpace(in.Question),
		Answer:    strings.TrimSpace(in.Answer),
		Category:  strings.TrimSpace(in.Category),
		Position:  in.Position,
		Published: in.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.withUniqueSlug(f, func(candidate domain.FAQ) (domain.FAQ, error) {
		return s.repo.Save(ctx, candidate)
	})
}

// GetByID busca uma FAQ.
func (s *Service) GetByID(ctx context.Context, id string) (domain.FAQ, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug busca uma FAQ publicada pelo slug.
func (s *Service) GetBySlug(ctx context.Context, slugValue string) (domain.FAQ, error) {
	f, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		return domain.FAQ{}, err
	}
	if !f.Published {
		return domain.FAQ{}, apperror.NewNotFoundError(fmt.Sprintf("FAQ %s não encontrada.", slugValue))
	}
	return f, nil
}

// List lista FAQs; publishedOnly restringe às publicadas.
func (s *Service) List(ctx context.Context, publishedOnly bool) ([]domain.FAQ, error) {
	return s.repo.FindAll(ctx, publishedOnly)
}

// Update substitui a FAQ. O slug só muda quando a pergunta muda.
func (s *Service) Update(ctx context.Context, id string, in domain.FAQInput) (domain.FAQ, error) {
	if err := validate(in); err != nil {
		return domain.FAQ{}, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.FAQ{}, err
	}

	questionChanged := current.Question != strings.TrimSpace(in.Question)
	current.Question = strings.TrimSpace(in.Question)
	current.Answer = strings.TrimSpace(in.Answer)
	current.Category = strings.TrimSpace(in.Category)
	current.Position = in.Position
	current.Published = in.Published
	current.UpdatedAt = time.Now().UTC()

	save := func(candidate domain.FAQ) (domain.FAQ, error) {
		return s.repo.Update(ctx, candidate)
	}
	if !questionChanged {
		return save(current)
	}
	return s.withUniqueSlug(current, save)
}

// Delete remove uma FAQ.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// withUniqueSlug tenta base, base-2, ..., base-5 enquanto o repositório acusar conflito.
func (s *Service) withUniqueSlug(f domain.FAQ, save func(domain.FAQ) (domain.FAQ, error)) (domain.FAQ, error) {
	base := slug.Make(f.Question)

	var lastErr error
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		f.Slug = base
		if attempt > 1 {
			f.Slug = fmt.Sprintf("%s-%d", base, attempt)
		}

		saved, err := save(f)
		if err == nil {
			return saved, nil
		}
		var conflict *apperror.ConflictError
		if !errors.As(err, &conflict) {
			return domain.FAQ{}, err
		}
		s.logger.Debug("Slug de FAQ em uso, tentando sufixo.", map[string]interface{}{"slug": f.Slug})
		lastErr = err
	}

	s.logger.Warn("Slug de FAQ esgotou as tentativas.", map[string]interface{}{"base": base})
	return domain.FAQ{}, lastErr
}
