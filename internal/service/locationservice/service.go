package locationservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gostore/config"
	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
)

var weekDays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// Service implementa as regras de negócio das lojas físicas.
type Service struct {
	repo    domain.LocationRepository
	squares config.SquareLocationMap
	logger  logger.Logger
	now     func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Lojas.
// squares resolve o ID Square de lojas que não o têm gravado.
func NewService(repo domain.LocationRepository, squares config.SquareLocationMap, logger logger.Logger) *Service {
	return &Service{repo: repo, squares: squares, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// CreateLocation cria uma nova loja após validações de negócio.
func (s *Service) CreateLocation(ctx context.Context, in domain.LocationInput) (domain.StoreLocation, error) {
	if err := validateInput(in); err != nil {
		s.logger.Warn("Falha na validação da loja.", map[string]interface{}{"name": in.Name, "error": err.Error()})
		return domain.StoreLocation{}, err
	}

	now := s.now()
	loc := domain.StoreLocation{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(in.Name),
		Address:          strings.TrimSpace(in.Address),
		Phone:            strings.TrimSpace(in.Phone),
		Hours:            in.Hours,
		SocialLinks:      in.SocialLinks,
		SquareLocationID: in.SquareLocationID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.Save(ctx, loc)
	if err != nil {
		return domain.StoreLocation{}, err
	}
	return s.withSquare(created), nil
}

// GetLocationByID busca uma loja pelo ID.
func (s *Service) GetLocationByID(ctx context.Context, id string) (domain.StoreLocation, error) {
	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.StoreLocation{}, err
	}
	return s.withSquare(loc), nil
}

// GetAllLocations busca todas as lojas.
func (s *Service) GetAllLocations(ctx context.Context) ([]domain.StoreLocation, error) {
	locations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range locations {
		locations[i] = s.withSquare(locations[i])
	}
	return locations, nil
}

// UpdateLocation substitui os dados editáveis da loja.
func (s *Service) UpdateLocation(ctx context.Context, id string, in domain.LocationInput) (domain.StoreLocation, error) {
	if err := validateInput(in); err != nil {
		return domain.StoreLocation{}, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.StoreLocation{}, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Address = strings.TrimSpace(in.Address)
	current.Phone = strings.TrimSpace(in.Phone)
	current.Hours = in.Hours
	current.SocialLinks = in.SocialLinks
	current.SquareLocationID = in.SquareLocationID
	current.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return domain.StoreLocation{}, err
	}
	s.logger.Info("Loja atualizada.", map[string]interface{}{"id": updated.ID})
	return s.withSquare(updated), nil
}

// DeleteLocation remove uma loja.
func (s *Service) DeleteLocation(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Exists satisfaz domain.ExistenceChecker.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *Service) withSquare(loc domain.StoreLocation) domain.StoreLocation {
	if loc.SquareLocationID != "" {
		return loc
	}
	if squareID, ok := s.squares.Lookup(loc.ID); ok {
		loc.SquareLocationID = squareID
	}
	return loc
}

func validateInput(in domain.LocationInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperror.NewValidationError("O nome da loja não pode ser vazio.")
	}
	if len(name) < 3 || len(name) > 100 {
		return apperror.NewValidationError("O nome da loja deve ter entre 3 e 100 caracteres.")
	}

	seen := map[string]bool{}
	for _, h := range in.Hours {
		day := strings.ToLower(h.Day)
		if !weekDays[day] {
			return apperror.NewValidationError(fmt.Sprintf("Dia da semana inválido: %q.", h.Day))
		}
		if seen[day] {
			return apperror.NewValidationError(fmt.Sprintf("Dia da semana repetido: %q.", h.Day))
		}
		seen[day] = true
		if h.Closed {
			continue
		}
		open, errOpen := time.Parse("15:04", h.Open)
		closing, errClose := time.Parse("15:04", h.Close)
		if errOpen != nil || errClose != nil {
			return apperror.NewValidationError(fmt.Sprintf("Horário de %s deve estar no formato HH:MM.", day))
		}
		if !open.Before(closing) {
			return apperror.NewValidationError(fmt.Sprintf("Em %s a abertura deve ser antes do fechamento.", day))
		}
	}
	return nil
}
