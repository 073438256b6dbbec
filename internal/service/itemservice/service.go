package itemservice

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
)

// Service implementa as regras do catálogo de itens.
type Service struct {
	repo   domain.ItemRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Itens.
func NewService(repo domain.ItemRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateItem valida e cria o item com suas variações.
func (s *Service) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.SKU = strings.TrimSpace(item.SKU)
	if item.Name == "" || item.SKU == "" {
		return domain.Item{}, apperror.NewValidationError("Nome e SKU são obrigatórios para o item.")
	}
	if item.Price <= 0 {
		return domain.Item{}, apperror.NewValidationError("O preço do item deve ser positivo.")
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.IsActive = true
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	for i := range item.Variations {
		if item.Variations[i].Attribute == "" || item.Variations[i].Value == "" {
			return domain.Item{}, apperror.NewValidationError(fmt.Sprintf("Variação %d requer Atributo e Valor.", i+1))
		}
		if item.Variations[i].ID == "" {
			item.Variations[i].ID = uuid.New().String()
		}
		item.Variations[i].ItemID = item.ID
	}

	return s.repo.Save(ctx, item)
}

// GetItemByID busca um item com suas variações.
func (s *Service) GetItemByID(ctx context.Context, id string) (domain.Item, error) {
	return s.repo.FindByID(ctx, id)
}

// GetItems lista itens a partir dos filtros da query string.
func (s *Service) GetItems(ctx context.Context, page, limit int, filters map[string]string) ([]domain.Item, error) {
	filter := domain.ItemFilter{Page: page, Limit: limit}
	if filters != nil {
		filter.Name = filters["name"]
		filter.SKU = filters["sku"]
		if raw, ok := filters["is_active"]; ok && raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, apperror.NewValidationError("is_active deve ser true ou false.")
			}
			filter.ActiveOnly = active
		}
	}

	s.logger.Debug("Listando itens.", map[string]interface{}{"page": page, "limit": limit, "name": filter.Name, "sku": filter.SKU})
	return s.repo.FindAll(ctx, filter)
}
