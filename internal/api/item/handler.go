package item

import (
	"context"
	"net/http"

	"gostore/internal/api/respond"
	"gostore/internal/domain"
	"gostore/internal/pkg/logger"
)

// ItemService define o contrato que o Handler espera da camada de Serviço.
type ItemService interface {
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	GetItemByID(ctx context.Context, id string) (domain.Item, error)
	GetItems(ctx context.Context, page, limit int, filters map[string]string) ([]domain.Item, error)
}

// Handler agrupa todos os métodos de Handler do catálogo.
type Handler struct {
	Service ItemService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ItemService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateItemHandler lida com POST /v1/items.
// @Summary Cria um item com variações
// @Tags items
// @Accept json
// @Produce json
// @Param item body domain.Item true "Item e variações"
// @Success 201 {object} domain.Item
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "SKU duplicado"
// @Security ApiKeyAuth
// @Router /items [post]
func (h *Handler) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.Item
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateItem(r.Context(), in)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusCreated, created)
}

// GetItemByIDHandler lida com GET /v1/items/{id}.
// @Summary Obtém um item por ID
// @Tags items
// @Produce json
// @Param id path string true "ID do item"
// @Success 200 {object} domain.Item
// @Failure 404 {object} domain.ErrorResponse "Item não encontrado"
// @Security ApiKeyAuth
// @Router /items/{id} [get]
func (h *Handler) GetItemByIDHandler(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetItemByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, found)
}

// ListItemsHandler lida com GET /v1/items.
// @Summary Lista itens
// @Tags items
// @Produce json
// @Param name query string false "Filtro por nome (contém)"
// @Param sku query string false "SKU exato"
// @Param is_active query bool false "Somente ativos"
// @Param page query int false "Página"
// @Param limit query int false "Itens por página"
// @Success 200 {array} domain.Item
// @Security ApiKeyAuth
// @Router /items [get]
func (h *Handler) ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := respond.Page(r)
	q := r.URL.Query()
	filters := map[string]string{
		"name":      q.Get("name"),
		"sku":       q.Get("sku"),
		"is_active": q.Get("is_active"),
	}

	items, err := h.Service.GetItems(r.Context(), page, limit, filters)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, items)
}
