package customerservice

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
)

// Service implementa o cadastro de clientes.
type Service struct {
	repo   domain.CustomerRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Clientes.
func NewService(repo domain.CustomerRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create valida e grava um novo cliente.
func (s *Service) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	if c.Name == "" {
		return domain.Customer{}, apperror.NewValidationError("O nome do cliente é obrigatório.")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return domain.Customer{}, apperror.NewValidationError("Email do cliente inválido.")
		}
	}

	now := time.Now().UTC()
	c.ID = uuid.New().String()
	c.CreatedAt = now
	c.UpdatedAt = now

	created, err := s.repo.Save(ctx, c)
	if err != nil {
		return domain.Customer{}, err
	}
	s.logger.Info("Cliente criado.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// GetByID busca um cliente.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

// List lista clientes paginados.
func (s *Service) List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	return s.repo.FindAll(ctx, filter)
}
