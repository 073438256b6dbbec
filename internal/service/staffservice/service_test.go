package staffservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
	"gostore/internal/pkg/token"
	"gostore/internal/service/staffservice"
)

type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) Save(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindByEmail(ctx context.Context, email string) (domain.Staff, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindByID(ctx context.Context, id string) (domain.Staff, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindAll(ctx context.Context) ([]domain.Staff, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newService(repo *MockStaffRepository) (*staffservice.Service, *token.Service) {
	tokens := token.NewService("segredo-de-teste", time.Hour)
	return staffservice.NewService(repo, tokens, logger.NewNop()), tokens
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	repo := new(MockStaffRepository)
	svc, _ := newService(repo)

	repo.On("Save", mock.Anything, mock.MatchedBy(func(s domain.Staff) bool {
		return s.Role == domain.RoleStaff &&
			bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte("senha-forte")) == nil
	})).Return(domain.Staff{ID: "s-1", Role: domain.RoleStaff}, nil)

	staff, err := svc.Register(context.Background(), domain.StaffRegistration{
		Name: "Ana", Email: "ana@loja.com", Password: "senha-forte",
	})

	require.NoError(t, err)
	assert.Equal(t, "s-1", staff.ID)
	repo.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		reg  domain.StaffRegistration
	}{
		{"missing name", domain.StaffRegistration{Email: "a@b.com", Password: "12345678"}},
		{"bad email", domain.StaffRegistration{Name: "A", Email: "não-é-email", Password: "12345678"}},
		{"short password", domain.StaffRegistration{Name: "A", Email: "a@b.com", Password: "123"}},
		{"unknown role", domain.StaffRegistration{Name: "A", Email: "a@b.com", Password: "12345678", Role: "owner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockStaffRepository)
			svc, _ := newService(repo)

			_, err := svc.Register(context.Background(), tt.reg)

			assert.IsType(t, &apperror.ValidationError{}, err)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestLogin_IssuesTokenWithRoleAndLocation(t *testing.T) {
	repo := new(MockStaffRepository)
	svc, tokens := newService(repo)
	hash, err := bcrypt.GenerateFromPassword([]byte("senha-forte"), bcrypt.MinCost)
	require.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "gerente@loja.com").Return(domain.Staff{
		ID: "s-2", Role: domain.RoleManager, LocationID: "loc-1", PasswordHash: string(hash),
	}, nil)

	resp, err := svc.Login(context.Background(), domain.LoginRequest{Email: "gerente@loja.com", Password: "senha-forte"})
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "s-2", claims.StaffID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "loc-1", claims.LocationID)
}

func TestLogin_Failures(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("certa"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		staff    domain.Staff
		findErr  error
		password string
		wantType any
	}{
		{"unknown email", domain.Staff{}, apperror.NewNotFoundError("x"), "qualquer", &apperror.UnauthorizedError{}},
		{"wrong password", domain.Staff{ID: "s", PasswordHash: string(hash)}, nil, "errada", &apperror.UnauthorizedError{}},
		{"db failure", domain.Staff{}, apperror.NewDBError("x", errors.New("down")), "qualquer", &apperror.InternalError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockStaffRepository)
			svc, _ := newService(repo)
			repo.On("FindByEmail", mock.Anything, "x@loja.com").Return(tt.staff, tt.findErr)

			_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "x@loja.com", Password: tt.password})

			assert.IsType(t, tt.wantType, err)
		})
	}
}
