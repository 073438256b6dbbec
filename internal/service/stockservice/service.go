package stockservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
	"gostore/internal/pkg/metrics"
)

// StockRepository define o contrato que o Serviço de Estoque espera da camada de Persistência.
type StockRepository interface {
	GetStockLevel(ctx context.Context, variantID, locationID string) (domain.StockLevel, error)
	UpdateStockLevel(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error)
	ListMovements(ctx context.Context, referenceID string) ([]domain.StockMovement, error)
}

// Service expõe o ledger de estoque para ajustes manuais e consultas.
type Service struct {
	repo    StockRepository
	metrics metrics.Recorder
	logger  logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo StockRepository, rec metrics.Recorder, logger logger.Logger) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{repo: repo, metrics: rec, logger: logger}
}

// AdjustStock aplica um ajuste manual ao nível de estoque de uma variação em uma loja.
func (s *Service) AdjustStock(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error) {
	s.logger.Debug("Iniciando ajuste de estoque no serviço.", map[string]interface{}{
		"variant_id":  adjustment.VariantID,
		"location_id": adjustment.LocationID,
		"delta":       adjustment.Delta,
	})

	if adjustment.Delta == 0 {
		return domain.StockLevel{}, apperror.NewValidationError("O ajuste de estoque (delta) não pode ser zero.")
	}
	if adjustment.VariantID == "" || adjustment.LocationID == "" {
		return domain.StockLevel{}, apperror.NewValidationError("variant_id e location_id são obrigatórios.")
	}
	adjustment.Reason = strings.TrimSpace(adjustment.Reason)
	if adjustment.Reason == "" {
		return domain.StockLevel{}, apperror.NewValidationError("O motivo do ajuste é obrigatório.")
	}

	stockLevel, err := s.repo.UpdateStockLevel(ctx, adjustment)
	if err != nil {
		var conflictErr *apperror.ConflictError
		if errors.As(err, &conflictErr) {
			return domain.StockLevel{}, apperror.NewConflictError(fmt.Sprintf("Falha de concorrência: %s", conflictErr.Msg))
		}
		if apperror.IsAppError(err) {
			return domain.StockLevel{}, err
		}
		s.logger.Error("Falha ao ajustar estoque no repositório.", err)
		return domain.StockLevel{}, apperror.NewInternalError("Falha interna ao ajustar estoque.", err)
	}

	s.metrics.ObserveStockMovement(ctx, "manual", adjustment.Delta)
	s.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"variant_id":   stockLevel.VariantID,
		"location_id":  stockLevel.LocationID,
		"new_quantity": stockLevel.Quantity,
		"new_version":  stockLevel.Version,
	})
	return stockLevel, nil
}

// GetStockLevel consulta o saldo de uma variação em uma loja.
func (s *Service) GetStockLevel(ctx context.Context, variantID, locationID string) (domain.StockLevel, error) {
	return s.repo.GetStockLevel(ctx, variantID, locationID)
}

// ListMovements lista o histórico do ledger, opcionalmente por referência.
func (s *Service) ListMovements(ctx context.Context, referenceID string) ([]domain.StockMovement, error) {
	return s.repo.ListMovements(ctx, referenceID)
}
