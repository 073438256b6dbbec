package staffservice

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
	"gostore/internal/pkg/token"
)

const minPasswordLength = 8

// Service define o serviço de lógica de negócio para funcionários.
type Service struct {
	repo     domain.StaffRepository
	tokenSvc token.TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do Service, injetando o Repositório e o serviço de token.
func NewService(repo domain.StaffRepository, tokenSvc token.TokenService, logger logger.Logger) *Service {
	return &Service{repo: repo, tokenSvc: tokenSvc, logger: logger}
}

// Register registra um novo funcionário com a senha em hash bcrypt.
func (s *Service) Register(ctx context.Context, reg domain.StaffRegistration) (domain.Staff, error) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		return domain.Staff{}, apperror.NewValidationError("Nome, email e senha são obrigatórios.")
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil {
		return domain.Staff{}, apperror.NewValidationError("Email inválido.")
	}
	if len(reg.Password) < minPasswordLength {
		return domain.Staff{}, apperror.NewValidationError("A senha deve ter pelo menos 8 caracteres.")
	}
	if reg.Role == "" {
		reg.Role = domain.RoleStaff
	}
	if !reg.Role.Valid() {
		return domain.Staff{}, apperror.NewValidationError("Papel inválido: use admin, manager ou staff.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Staff{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	now := time.Now().UTC()
	staff, err := s.repo.Save(ctx, domain.Staff{
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: string(hashed),
		Role:         reg.Role,
		LocationID:   reg.LocationID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return domain.Staff{}, err
	}

	s.logger.Info("Funcionário registrado.", map[string]interface{}{"staff_id": staff.ID, "role": staff.Role})
	return staff, nil
}

// Login autentica o funcionário e emite um JWT.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return domain.LoginResponse{}, apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	staff, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// NotFound vira 401 para não revelar quais emails existem.
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Tentativa de login com senha incorreta.", map[string]interface{}{"staff_id": staff.ID})
		return domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.tokenSvc.GenerateToken(staff.ID, string(staff.Role), staff.LocationID)
	if err != nil {
		return domain.LoginResponse{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}
	return domain.LoginResponse{Token: tokenString}, nil
}

// GetByID busca um funcionário.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Staff, error) {
	return s.repo.FindByID(ctx, id)
}

// List lista todos os funcionários.
func (s *Service) List(ctx context.Context) ([]domain.Staff, error) {
	return s.repo.FindAll(ctx)
}
