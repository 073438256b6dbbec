package warranty

import (
	"context"
	"net/http"

	"gostore/internal/api/respond"
	"gostore/internal/domain"
	"gostore/internal/pkg/logger"
)

// WarrantyService define o contrato que o Handler espera da camada de Serviço.
type WarrantyService interface {
	CreateType(ctx context.Context, wt domain.WarrantyType) (domain.WarrantyType, error)
	GetType(ctx context.Context, id string) (domain.WarrantyType, error)
	ListTypes(ctx context.Context) ([]domain.WarrantyType, error)
	UpdateType(ctx context.Context, id string, wt domain.WarrantyType) (domain.WarrantyType, error)
	DeleteType(ctx context.Context, id string) error

	Create(ctx context.Context, in domain.WarrantyInput) (domain.Warranty, error)
	GetByID(ctx context.Context, id string) (domain.Warranty, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Warranty, error)
	Update(ctx context.Context, id string, in domain.WarrantyInput) (domain.Warranty, error)
}

// Handler agrupa os handlers de garantias.
type Handler struct {
	Service WarrantyService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc WarrantyService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateTypeHandler lida com POST /v1/warranty-types.
// @Summary Cria um tipo de garantia
// @Description duration_months = 0 cria uma garantia vitalícia.
// @Tags warranties
// @Accept json
// @Produce json
// @Param type body domain.WarrantyType true "Tipo de garantia"
// @Success 201 {object} domain.WarrantyType
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security ApiKeyAuth
// @Router /warranty-types [post]
func (h *Handler) CreateTypeHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.WarrantyType
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	created, err := h.Service.CreateType(r.Context(), in)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusCreated, created)
}

// GetTypeHandler lida com GET /v1/warranty-types/{id}.
// @Summary Obtém um tipo de garantia
// @Tags warranties
// @Produce json
// @Param id path string true "ID do tipo"
// @Success 200 {object} domain.WarrantyType
// @Failure 404 {object} domain.ErrorResponse "Tipo não encontrado"
// @Security ApiKeyAuth
// @Router /warranty-types/{id} [get]
func (h *Handler) GetTypeHandler(w http.ResponseWriter, r *http.Request) {
	wt, err := h.Service.GetType(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, wt)
}

// ListTypesHandler lida com GET /v1/warranty-types.
// @Summary Lista tipos de garantia
// @Tags warranties
// @Produce json
// @Success 200 {array} domain.WarrantyType
// @Security ApiKeyAuth
// @Router /warranty-types [get]
func (h *Handler) ListTypesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListTypes(r.Context())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, list)
}

// UpdateTypeHandler lida com PUT /v1/warranty-types/{id}.
// @Summary Atualiza um tipo de garantia
// @Tags warranties
// @Accept json
// @Produce json
// @Param id path string true "ID do tipo"
// @Param type body domain.WarrantyType true "Tipo de garantia"
// @Success 200 {object} domain.WarrantyType
// @Failure 404 {object} domain.ErrorResponse "Tipo não encontrado"
// @Security ApiKeyAuth
// @Router /warranty-types/{id} [put]
func (h *Handler) UpdateTypeHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.WarrantyType
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	updated, err := h.Service.UpdateType(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, updated)
}

// DeleteTypeHandler lida com DELETE /v1/warranty-types/{id}.
// @Summary Remove um tipo de garantia
// @Tags warranties
// @Param id path string true "ID do tipo"
// @Success 204 "Nenhum conteúdo"
// @Failure 409 {object} domain.ErrorResponse "Tipo em uso"
// @Security ApiKeyAuth
// @Router /warranty-types/{id} [delete]
func (h *Handler) DeleteTypeHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteType(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.NoContent(w)
}

// CreateWarrantyHandler lida com POST /v1/warranties.
// @Summary Emite uma garantia
// @Description end_date é calculado a partir da duração do tipo.
// @Tags warranties
// @Accept json
// @Produce json
// @Param warranty body domain.WarrantyInput true "Garantia"
// @Success 201 {object} domain.Warranty
// @Failure 422 {object} domain.ErrorResponse "Entidade referenciada inexistente"
// @Security ApiKeyAuth
// @Router /warranties [post]
func (h *Handler) CreateWarrantyHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.WarrantyInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	created, err := h.Service.Create(r.Context(), in)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusCreated, created)
}

// GetWarrantyHandler lida com GET /v1/warranties/{id}.
// @Summary Obtém uma garantia
// @Tags warranties
// @Produce json
// @Param id path string true "ID da garantia"
// @Success 200 {object} domain.Warranty
// @Failure 404 {object} domain.ErrorResponse "Garantia não encontrada"
// @Security ApiKeyAuth
// @Router /warranties/{id} [get]
func (h *Handler) GetWarrantyHandler(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, found)
}

// ListCustomerWarrantiesHandler lida com GET /v1/customers/{id}/warranties.
// @Summary Garantias de um cliente
// @Tags warranties
// @Produce json
// @Param id path string true "ID do cliente"
// @Success 200 {array} domain.Warranty
// @Security ApiKeyAuth
// @Router /customers/{id}/warranties [get]
func (h *Handler) ListCustomerWarrantiesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListByCustomer(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, list)
}

// UpdateWarrantyHandler lida com PUT /v1/warranties/{id}.
// @Summary Atualiza uma garantia
// @Tags warranties
// @Accept json
// @Produce json
// @Param id path string true "ID da garantia"
// @Param warranty body domain.WarrantyInput true "Campos da garantia"
// @Success 200 {object} domain.Warranty
// @Failure 404 {object} domain.ErrorResponse "Garantia não encontrada"
// @Security ApiKeyAuth
// @Router /warranties/{id} [put]
func (h *Handler) UpdateWarrantyHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.WarrantyInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, updated)
}
