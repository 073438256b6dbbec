package stock

import (
	"context"
	"net/http"

	"gostore/internal/api/respond"
	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	AdjustStock(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error)
	GetStockLevel(ctx context.Context, variantID, locationID string) (domain.StockLevel, error)
	ListMovements(ctx context.Context, referenceID string) ([]domain.StockMovement, error)
}

// Handler agrupa todos os métodos de Handler de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StockService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// AdjustStockHandler lida com a requisição POST /v1/stock/adjust.
// @Summary Ajuste manual de estoque
// @Description Aplica um delta (positivo ou negativo) ao saldo da variação na loja.
// @Tags stock
// @Accept json
// @Produce json
// @Param adjustment body domain.StockAdjustmentRequest true "Ajuste"
// @Success 200 {object} domain.StockLevel
// @Failure 400 {object} domain.ErrorResponse "Delta zero ou saldo negativo"
// @Failure 409 {object} domain.ErrorResponse "Conflito de concorrência"
// @Security ApiKeyAuth
// @Router /stock/adjust [post]
func (h *Handler) AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.StockAdjustmentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	level, err := h.Service.AdjustStock(r.Context(), req)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, level)
}

// GetStockLevelHandler lida com GET /v1/stock/{variantId}/{locationId}.
// @Summary Saldo de uma variação numa loja
// @Tags stock
// @Produce json
// @Param variantId path string true "ID da variação"
// @Param locationId path string true "ID da loja"
// @Success 200 {object} domain.StockLevel
// @Failure 404 {object} domain.ErrorResponse "Sem saldo registrado"
// @Security ApiKeyAuth
// @Router /stock/{variantId}/{locationId} [get]
func (h *Handler) GetStockLevelHandler(w http.ResponseWriter, r *http.Request) {
	level, err := h.Service.GetStockLevel(r.Context(), r.PathValue("variantId"), r.PathValue("locationId"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, level)
}

// ListMovementsHandler lida com GET /v1/stock/movements?reference_id=.
// @Summary Movimentos de estoque por referência
// @Description Lista os movimentos gerados por uma troca (reference_id = ID da troca).
// @Tags stock
// @Produce json
// @Param reference_id query string true "Referência do movimento"
// @Success 200 {array} domain.StockMovement
// @Failure 400 {object} domain.ErrorResponse "reference_id ausente"
// @Security ApiKeyAuth
// @Router /stock/movements [get]
func (h *Handler) ListMovementsHandler(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("reference_id")
	if ref == "" {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("reference_id é obrigatório."))
		return
	}

	movements, err := h.Service.ListMovements(r.Context(), ref)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, movements)
}
