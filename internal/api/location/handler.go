package location

import (
	"context"
	"net/http"

	"gostore/internal/api/respond"
	"gostore/internal/domain"
	"gostore/internal/pkg/logger"
)

// LocationService define o contrato que o Handler espera da camada de Serviço.
type LocationService interface {
	CreateLocation(ctx context.Context, in domain.LocationInput) (domain.StoreLocation, error)
	GetLocationByID(ctx context.Context, id string) (domain.StoreLocation, error)
	GetAllLocations(ctx context.Context) ([]domain.StoreLocation, error)
	UpdateLocation(ctx context.Context, id string, in domain.LocationInput) (domain.StoreLocation, error)
	DeleteLocation(ctx context.Context, id string) error
}

// Handler agrupa os handlers de lojas.
type Handler struct {
	Service LocationService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc LocationService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateLocationHandler lida com a requisição POST /v1/locations.
// @Summary Cria uma nova loja
// @Description Cria uma loja com horários por dia da semana e redes sociais.
// @Tags locations
// @Accept json
// @Produce json
// @Param location body domain.LocationInput true "Dados da loja"
// @Success 201 {object} domain.StoreLocation "Loja criada com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /locations [post]
func (h *Handler) CreateLocationHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.LocationInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateLocation(r.Context(), in)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusCreated, created)
}

// GetLocationByIDHandler lida com a requisição GET /v1/locations/{id}.
// @Summary Obtém uma loja por ID
// @Tags locations
// @Produce json
// @Param id path string true "ID da loja"
// @Success 200 {object} domain.StoreLocation "Loja encontrada"
// @Failure 404 {object} domain.ErrorResponse "Loja não encontrada"
// @Router /locations/{id} [get]
func (h *Handler) GetLocationByIDHandler(w http.ResponseWriter, r *http.Request) {
	loc, err := h.Service.GetLocationByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, loc)
}

// GetAllLocationsHandler lida com a requisição GET /v1/locations.
// @Summary Lista todas as lojas
// @Tags locations
// @Produce json
// @Success 200 {array} domain.StoreLocation "Lista de lojas"
// @Router /locations [get]
func (h *Handler) GetAllLocationsHandler(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Service.GetAllLocations(r.Context())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, locations)
}

// UpdateLocationHandler lida com a requisição PUT /v1/locations/{id}.
// @Summary Atualiza uma loja
// @Tags locations
// @Accept json
// @Produce json
// @Param id path string true "ID da loja"
// @Param location body domain.LocationInput true "Dados da loja"
// @Success 200 {object} domain.StoreLocation "Loja atualizada com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Loja não encontrada"
// @Security ApiKeyAuth
// @Router /locations/{id} [put]
func (h *Handler) UpdateLocationHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.LocationInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdateLocation(r.Context(), r.PathValue("id"), in)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, updated)
}

// DeleteLocationHandler lida com a requisição DELETE /v1/locations/{id}.
// @Summary Deleta uma loja
// @Tags locations
// @Param id path string true "ID da loja"
// @Success 204 "Nenhum conteúdo"
// @Failure 404 {object} domain.ErrorResponse "Loja não encontrada"
// @Failure 409 {object} domain.ErrorResponse "Loja com vínculos"
// @Security ApiKeyAuth
// @Router /locations/{id} [delete]
func (h *Handler) DeleteLocationHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteLocation(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.NoContent(w)
}
