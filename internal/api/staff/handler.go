package staff

import (
	"context"
	"net/http"

	"gostore/internal/api/respond"
	"gostore/internal/domain"
	"gostore/internal/pkg/logger"
)

// StaffService define o contrato que o Handler espera da camada de Serviço.
type StaffService interface {
	Register(ctx context.Context, reg domain.StaffRegistration) (domain.Staff, error)
	Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
	GetByID(ctx context.Context, id string) (domain.Staff, error)
	List(ctx context.Context) ([]domain.Staff, error)
}

// Handler agrupa os handlers de funcionários e autenticação.
type Handler struct {
	Service StaffService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StaffService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// RegisterHandler lida com POST /v1/staff.
// @Summary Registra um funcionário
// @Tags staff
// @Accept json
// @Produce json
// @Param staff body domain.StaffRegistration true "Dados do funcionário"
// @Success 201 {object} domain.Staff
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Email já em uso"
// @Security ApiKeyAuth
// @Router /staff [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.StaffRegistration
	if err := respond.Decode(r, &reg); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.Register(r.Context(), reg)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusCreated, created)
}

// LoginHandler lida com POST /v1/auth/login.
// @Summary Autentica um funcionário
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body domain.LoginRequest true "Email e senha"
// @Success 200 {object} domain.LoginResponse
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /auth/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	resp, err := h.Service.Login(r.Context(), req)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, resp)
}

// GetStaffHandler lida com GET /v1/staff/{id}.
// @Summary Obtém um funcionário
// @Tags staff
// @Produce json
// @Param id path string true "ID do funcionário"
// @Success 200 {object} domain.Staff
// @Failure 404 {object} domain.ErrorResponse "Funcionário não encontrado"
// @Security ApiKeyAuth
// @Router /staff/{id} [get]
func (h *Handler) GetStaffHandler(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, s)
}

// ListStaffHandler lida com GET /v1/staff.
// @Summary Lista funcionários
// @Tags staff
// @Produce json
// @Success 200 {array} domain.Staff
// @Security ApiKeyAuth
// @Router /staff [get]
func (h *Handler) ListStaffHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, r, h.Logger, http.StatusOK, list)
}
