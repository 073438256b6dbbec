package warrantyservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
)

// Service implementa tipos de garantia e garantias emitidas.
type Service struct {
	types      domain.WarrantyTypeRepository
	warranties domain.WarrantyRepository
	customers  domain.ExistenceChecker
	items      domain.ExistenceChecker
	logger     logger.Logger
	now        func() time.Time
}

// NewService cria o serviço de garantias.
func NewService(
	types domain.WarrantyTypeRepository,
	warranties domain.WarrantyRepository,
	customers, items domain.ExistenceChecker,
	logger logger.Logger,
) *Service {
	return &Service{
		types:      types,
		warranties: warranties,
		customers:  customers,
		items:      items,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// --- Tipos de garantia ---

func validateType(wt domain.WarrantyType) error {
	if strings.TrimSpace(wt.Name) == "" {
		return apperror.NewValidationError("O nome do tipo de garantia é obrigatório.")
	}
	if wt.DurationMonths < 0 {
		return apperror.NewValidationError("A duração não pode ser negativa (0 = vitalícia).")
	}
	return nil
}

// CreateType cria um tipo de garantia.
func (s *Service) CreateType(ctx context.Context, wt domain.WarrantyType) (domain.WarrantyType, error) {
	if err := validateType(wt); err != nil {
		return domain.WarrantyType{}, err
	}
	now := s.now()
	wt.ID = uuid.New().String()
	wt.Name = strings.TrimSpace(wt.Name)
	wt.CreatedAt = now
	wt.UpdatedAt = now
	return s.types.Save(ctx, wt)
}

// GetType busca um tipo de garantia.
func (s *Service) GetType(ctx context.Context, id string) (domain.WarrantyType, error) {
	return s.types.FindByID(ctx, id)
}

// ListTypes lista os tipos de garantia.
func (s *Service) ListTypes(ctx context.Context) ([]domain.WarrantyType, error) {
	return s.types.FindAll(ctx)
}

// UpdateType substitui os campos do tipo. Garantias já emitidas mantêm a data de término.
func (s *Service) UpdateType(ctx context.Context, id string, wt domain.WarrantyType) (domain.WarrantyType, error) {
	if err := validateType(wt); err != nil {
		return domain.WarrantyType{}, err
	}
	current, err := s.types.FindByID(ctx, id)
	if err != nil {
		return domain.WarrantyType{}, err
	}
	current.Name = strings.TrimSpace(wt.Name)
	current.Description = wt.Description
	current.DurationMonths = wt.DurationMonths
	current.Coverage = wt.Coverage
	current.UpdatedAt = s.now()
	return s.types.Update(ctx, current)
}

// DeleteType remove um tipo de garantia.
func (s *Service) DeleteType(ctx context.Context, id string) error {
	return s.types.Delete(ctx, id)
}

// --- Garantias ---

// Create emite uma garantia; a data de término vem da duração do tipo.
func (s *Service) Create(ctx context.Context, in domain.WarrantyInput) (domain.Warranty, error) {
	wt, err := s.checkInput(ctx, in)
	if err != nil {
		return domain.Warranty{}, err
	}

	now := s.now()
	start := now
	if in.StartDate != nil {
		start = in.StartDate.UTC()
	}

	w := domain.Warranty{
		ID:             uuid.New().String(),
		WarrantyTypeID: wt.ID,
		CustomerID:     in.CustomerID,
		ItemID:         in.ItemID,
		StartDate:      start,
		EndDate:        domain.WarrantyEndDate(start, wt.DurationMonths),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	saved, err := s.warranties.Save(ctx, w)
	if err != nil {
		return domain.Warranty{}, err
	}
	s.logger.Info("Garantia emitida.", map[string]interface{}{"id": saved.ID, "customer_id": saved.CustomerID, "lifetime": saved.EndDate == nil})
	return s.withStatus(saved), nil
}

// GetByID busca uma garantia com o status derivado.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Warranty, error) {
	w, err := s.warranties.FindByID(ctx, id)
	if err != nil {
		return domain.Warranty{}, err
	}
	return s.withStatus(w), nil
}

// ListByCustomer lista as garantias do cliente com o status derivado.
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]domain.Warranty, error) {
	list, err := s.warranties.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = s.withStatus(list[i])
	}
	return list, nil
}

// Update troca tipo, vínculos ou início e recalcula o término.
func (s *Service) Update(ctx context.Context, id string, in domain.WarrantyInput) (domain.Warranty, error) {
	current, err := s.warranties.FindByID(ctx, id)
	if err != nil {
		return domain.Warranty{}, err
	}

	if in.WarrantyTypeID == "" {
		in.WarrantyTypeID = current.WarrantyTypeID
	}
	if in.CustomerID == "" {
		in.CustomerID = current.CustomerID
	}
	if in.ItemID == "" {
		in.ItemID = current.ItemID
	}
	wt, err := s.checkInput(ctx, in)
	if err != nil {
		return domain.Warranty{}, err
	}

	if in.StartDate != nil {
		current.StartDate = in.StartDate.UTC()
	}
	current.WarrantyTypeID = wt.ID
	current.CustomerID = in.CustomerID
	current.ItemID = in.ItemID
	current.EndDate = domain.WarrantyEndDate(current.StartDate, wt.DurationMonths)
	current.UpdatedAt = s.now()

	updated, err := s.warranties.Update(ctx, current)
	if err != nil {
		return domain.Warranty{}, err
	}
	return s.withStatus(updated), nil
}

func (s *Service) checkInput(ctx context.Context, in domain.WarrantyInput) (domain.WarrantyType, error) {
	if in.WarrantyTypeID == "" || in.CustomerID == "" || in.ItemID == "" {
		return domain.WarrantyType{}, apperror.NewValidationError("warranty_type_id, customer_id e item_id são obrigatórios.")
	}

	wt, err := s.types.FindByID(ctx, in.WarrantyTypeID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return domain.WarrantyType{}, apperror.NewReferencedEntityMissingError("warranty_type", in.WarrantyTypeID)
		}
		return domain.WarrantyType{}, err
	}

	checks := []struct {
		entity  string
		id      string
		checker domain.ExistenceChecker
	}{
		{"customer", in.CustomerID, s.customers},
		{"item", in.ItemID, s.items},
	}
	for _, c := range checks {
		ok, err := c.checker.Exists(ctx, c.id)
		if err != nil {
			return domain.WarrantyType{}, err
		}
		if !ok {
			return domain.WarrantyType{}, apperror.NewReferencedEntityMissingError(c.entity, c.id)
		}
	}
	return wt, nil
}

func (s *Service) withStatus(w domain.Warranty) domain.Warranty {
	w.Status = w.StatusAt(s.now())
	return w
}
