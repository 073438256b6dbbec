package exchange

import (
	"context"
	"net/http"

	"gostore/internal/api/respond"
	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
	"gostore/internal/pkg/middleware"
)

// ExchangeService define o contrato que o Handler espera da camada de Serviço.
type ExchangeService interface {
	Create(ctx context.Context, input domain.ExchangeInput) (domain.Exchange, error)
	GetByID(ctx context.Context, id string) (domain.Exchange, error)
	List(ctx context.Context, filter domain.ExchangeFilter) ([]domain.Exchange, error)
	Update(ctx context.Context, id string, changes domain.ExchangeChanges) (domain.Exchange, error)
	Delete(ctx context.Context, id string) error
	Transition(ctx context.Context, id string, target domain.ExchangeStatus, changes domain.ExchangeChanges) (domain.TransitionResult, error)
}

// Handler agrupa os handlers de trocas.
type Handler struct {
	Service ExchangeService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ExchangeService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// StatusRequest é o corpo de POST /v1/exchanges/{id}/status.
type StatusRequest struct {
	Status      domain.ExchangeStatus `json:"status" example:"Approved"`
	Reason      *string               `json:"reason,omitempty"`
	ProcessedBy *string               `json:"processed_by,omitempty"`
}

// CreateExchangeHandler lida com POST /v1/exchanges.
// @Summary Registra uma troca
// @Description Cria a troca com status Pending após verificar cliente, itens e funcionário.
// @Tags exchanges
// @Accept json
// @Produce json
// @Param exchange body domain.ExchangeInput true "Dados da troca"
// @Success 201 {object} domain.Exchange
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 422 {object} domain.ErrorResponse "Entidade referenciada inexistente"
// @Security ApiKeyAuth
// @Router /exchanges [post]
func (h *Handler) CreateExchangeHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.ExchangeInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.Create(r.Context(), input)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusCreated, created)
}

// GetExchangeHandler lida com GET /v1/exchanges/{id}.
// @Summary Obtém uma troca
// @Tags exchanges
// @Produce json
// @Param id path string true "ID da troca"
// @Success 200 {object} domain.Exchange
// @Failure 404 {object} domain.ErrorResponse "Troca não encontrada"
// @Security ApiKeyAuth
// @Router /exchanges/{id} [get]
func (h *Handler) GetExchangeHandler(w http.ResponseWriter, r *http.Request) {
	ex, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, ex)
}

// ListExchangesHandler lida com GET /v1/exchanges.
// @Summary Lista trocas
// @Tags exchanges
// @Produce json
// @Param status query string false "Pending, Approved ou Rejected"
// @Param customer_id query string false "Filtra por cliente"
// @Param location_id query string false "Filtra por loja"
// @Param page query int false "Página (a partir de 1)"
// @Param limit query int false "Itens por página"
// @Success 200 {array} domain.Exchange
// @Failure 400 {object} domain.ErrorResponse "Status inválido"
// @Security ApiKeyAuth
// @Router /exchanges [get]
func (h *Handler) ListExchangesHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := respond.Page(r)
	q := r.URL.Query()
	filter := domain.ExchangeFilter{
		Status:     domain.ExchangeStatus(q.Get("status")),
		CustomerID: q.Get("customer_id"),
		LocationID: q.Get("location_id"),
		Page:       page,
		Limit:      limit,
	}

	list, err := h.Service.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, list)
}

// UpdateExchangeHandler lida com PATCH /v1/exchanges/{id}.
// @Summary Atualiza campos de uma troca
// @Description Com "status" no corpo, a atualização passa pela transição de status.
// @Tags exchanges
// @Accept json
// @Produce json
// @Param id path string true "ID da troca"
// @Param changes body domain.ExchangeChanges true "Campos a alterar"
// @Success 200 {object} domain.Exchange
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Troca não encontrada"
// @Failure 403 {object} domain.ErrorResponse "Mudança de status sem papel de gerente"
// @Failure 409 {object} domain.ErrorResponse "Transição inválida ou conflito"
// @Security ApiKeyAuth
// @Router /exchanges/{id} [patch]
func (h *Handler) UpdateExchangeHandler(w http.ResponseWriter, r *http.Request) {
	var changes domain.ExchangeChanges
	if err := respond.Decode(r, &changes); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	// Mesma regra da rota /status.
	if changes.Status != nil && !canTransition(r) {
		respond.Error(w, r, h.Logger, apperror.NewForbiddenError("Apenas admin ou manager podem alterar o status."))
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), changes)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, updated)
}

// TransitionHandler lida com POST /v1/exchanges/{id}/status.
// @Summary Aprova ou rejeita uma troca
// @Description Aprovação movimenta o estoque das variações (saída da nova, entrada da devolvida).
// @Description Repetir o status atual responde 200 com changed=false.
// @Tags exchanges
// @Accept json
// @Produce json
// @Param id path string true "ID da troca"
// @Param body body StatusRequest true "Status alvo"
// @Success 200 {object} domain.TransitionResult
// @Failure 400 {object} domain.ErrorResponse "Status inválido"
// @Failure 403 {object} domain.ErrorResponse "Papel sem permissão"
// @Failure 404 {object} domain.ErrorResponse "Troca não encontrada"
// @Failure 409 {object} domain.ErrorResponse "Transição inválida ou falha de estoque"
// @Failure 500 {object} domain.ErrorResponse "Falha ao persistir"
// @Security ApiKeyAuth
// @Router /exchanges/{id}/status [post]
func (h *Handler) TransitionHandler(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	result, err := h.Service.Transition(r.Context(), r.PathValue("id"), req.Status, domain.ExchangeChanges{
		Reason:      req.Reason,
		ProcessedBy: req.ProcessedBy,
	})
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, result)
}

// DeleteExchangeHandler lida com DELETE /v1/exchanges/{id}.
// @Summary Remove uma troca
// @Description Trocas aprovadas não podem ser removidas.
// @Tags exchanges
// @Param id path string true "ID da troca"
// @Success 204 "Nenhum conteúdo"
// @Failure 404 {object} domain.ErrorResponse "Troca não encontrada"
// @Failure 409 {object} domain.ErrorResponse "Troca aprovada"
// @Security ApiKeyAuth
// @Router /exchanges/{id} [delete]
func (h *Handler) DeleteExchangeHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.NoContent(w)
}

func canTransition(r *http.Request) bool {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	return ok && (claims.Role == domain.RoleAdmin || claims.Role == domain.RoleManager)
}
