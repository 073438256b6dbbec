package faq

import (
	"context"
	"net/http"

	"gostore/internal/api/respond"
	"gostore/internal/domain"
	"gostore/internal/pkg/logger"
)

// FAQService define o contrato que o Handler espera da camada de Serviço.
type FAQService interface {
	Create(ctx context.Context, in domain.FAQInput) (domain.FAQ, error)
	GetByID(ctx context.Context, id string) (domain.FAQ, error)
	GetBySlug(ctx context.Context, slug string) (domain.FAQ, error)
	List(ctx context.Context, publishedOnly bool) ([]domain.FAQ, error)
	Update(ctx context.Context, id string, in domain.FAQInput) (domain.FAQ, error)
	Delete(ctx context.Context, id string) error
}

// Handler agrupa os handlers de FAQ.
type Handler struct {
	Service FAQService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc FAQService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListPublicHandler lida com GET /v1/faqs (rota pública, só publicadas).
// @Summary Lista FAQs publicadas
// @Tags faqs
// @Produce json
// @Success 200 {array} domain.FAQ
// @Router /faqs [get]
func (h *Handler) ListPublicHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context(), true)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, list)
}

// GetBySlugHandler lida com GET /v1/faqs/{slug}.
// @Summary Obtém uma FAQ publicada pelo slug
// @Tags faqs
// @Produce json
// @Param slug path string true "Slug"
// @Success 200 {object} domain.FAQ
// @Failure 404 {object} domain.ErrorResponse "FAQ não encontrada"
// @Router /faqs/{slug} [get]
func (h *Handler) GetBySlugHandler(w http.ResponseWriter, r *http.Request) {
	f, err := h.Service.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, f)
}

// ListAllHandler lida com GET /v1/admin/faqs (inclui rascunhos).
// @Summary Lista todas as FAQs
// @Tags faqs
// @Produce json
// @Success 200 {array} domain.FAQ
// @Security ApiKeyAuth
// @Router /admin/faqs [get]
func (h *Handler) ListAllHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context(), false)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, list)
}

// CreateHandler lida com POST /v1/admin/faqs.
// @Summary Cria uma FAQ
// @Tags faqs
// @Accept json
// @Produce json
// @Param faq body domain.FAQInput true "FAQ"
// @Success 201 {object} domain.FAQ
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Slug esgotado"
// @Security ApiKeyAuth
// @Router /admin/faqs [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.FAQInput
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

// GetHandler lida com GET /v1/admin/faqs/{id}.
// @Summary Obtém uma FAQ por ID
// @Tags faqs
// @Produce json
// @Param id path string true "ID da FAQ"
// @Success 200 {object} domain.FAQ
// @Failure 404 {object} domain.ErrorResponse "FAQ não encontrada"
// @Security ApiKeyAuth
// @Router /admin/faqs/{id} [get]
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	f, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, f)
}

// UpdateHandler lida com PUT /v1/admin/faqs/{id}.
// @Summary Atualiza uma FAQ
// @Tags faqs
// @Accept json
// @Produce json
// @Param id path string true "ID da FAQ"
// @Param faq body domain.FAQInput true "FAQ"
// @Success 200 {object} domain.FAQ
// @Failure 404 {object} domain.ErrorResponse "FAQ não encontrada"
// @Security ApiKeyAuth
// @Router /admin/faqs/{id} [put]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.FAQInput
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

// DeleteHandler lida com DELETE /v1/admin/faqs/{id}.
// @Summary Remove uma FAQ
// @Tags faqs
// @Param id path string true "ID da FAQ"
// @Success 204 "Nenhum conteúdo"
// @Failure 404 {object} domain.ErrorResponse "FAQ não encontrada"
// @Security ApiKeyAuth
// @Router /admin/faqs/{id} [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.NoContent(w)
}
