package stockservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
	"gostore/internal/pkg/metrics"
	"gostore/internal/service/stockservice"
)

// MockStockRepository é uma implementação mock da interface StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) GetStockLevel(ctx context.Context, variantID, locationID string) (domain.StockLevel, error) {
	args := m.Called(ctx, variantID, locationID)
	return args.Get(0).(domain.StockLevel), args.Error(1)
}

func (m *MockStockRepository) UpdateStockLevel(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error) {
	args := m.Called(ctx, adjustment)
	return args.Get(0).(domain.StockLevel), args.Error(1)
}

func (m *MockStockRepository) ListMovements(ctx context.Context, referenceID string) ([]domain.StockMovement, error) {
	args := m.Called(ctx, referenceID)
	return args.Get(0).([]domain.StockMovement), args.Error(1)
}

func newService(repo *MockStockRepository) *stockservice.Service {
	return stockservice.NewService(repo, metrics.Nop{}, logger.NewNop())
}

func TestAdjustStock_Success_ExistingStock(t *testing.T) {
	mockRepo := new(MockStockRepository)
	svc := newService(mockRepo)

	variantID := uuid.New().String()
	locationID := uuid.New().String()
	adjustment := domain.StockAdjustmentRequest{VariantID: variantID, LocationID: locationID, Delta: 5, Reason: " recontagem "}

	expected := domain.StockLevel{
		ID:         uuid.New().String(),
		VariantID:  variantID,
		LocationID: locationID,
		Quantity:   15,
		Version:    2,
		UpdatedAt:  time.Now(),
	}

	trimmed := adjustment
	trimmed.Reason = "recontagem"
	mockRepo.On("UpdateStockLevel", mock.Anything, trimmed).Return(expected, nil).Once()

	result, err := svc.AdjustStock(context.Background(), adjustment)

	assert.NoError(t, err)
	assert.Equal(t, 15, result.Quantity)
	assert.Equal(t, 2, result.Version)
	mockRepo.AssertExpectations(t)
}

func TestAdjustStock_Fail_NegativeResultingStock(t *testing.T) {
	mockRepo := new(MockStockRepository)
	svc := newService(mockRepo)

	mockRepo.On("UpdateStockLevel", mock.Anything, mock.AnythingOfType("domain.StockAdjustmentRequest")).
		Return(domain.StockLevel{}, apperror.NewValidationError("Ajuste resultaria em estoque negativo (atual 3, delta -15).")).Once()

	_, err := svc.AdjustStock(context.Background(), domain.StockAdjustmentRequest{
		VariantID: uuid.New().String(), LocationID: uuid.New().String(), Delta: -15, Reason: "perda",
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "estoque negativo")
	mockRepo.AssertExpectations(t)
}

func TestAdjustStock_Fail_OCCConflict(t *testing.T) {
	mockRepo := new(MockStockRepository)
	svc := newService(mockRepo)

	mockRepo.On("UpdateStockLevel", mock.Anything, mock.AnythingOfType("domain.StockAdjustmentRequest")).
		Return(domain.StockLevel{}, apperror.NewConflictError("O estoque foi modificado por outra operação. Tente novamente.")).Once()

	_, err := svc.AdjustStock(context.Background(), domain.StockAdjustmentRequest{
		VariantID: uuid.New().String(), LocationID: uuid.New().String(), Delta: 1, Reason: "entrada",
	})

	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.Contains(t, err.Error(), "concorrência")
	mockRepo.AssertExpectations(t)
}

func TestAdjustStock_Fail_Validation(t *testing.T) {
	tests := []struct {
		name       string
		adjustment domain.StockAdjustmentRequest
	}{
		{"zero delta", domain.StockAdjustmentRequest{VariantID: "v", LocationID: "l", Delta: 0, Reason: "x"}},
		{"missing variant", domain.StockAdjustmentRequest{LocationID: "l", Delta: 1, Reason: "x"}},
		{"blank reason", domain.StockAdjustmentRequest{VariantID: "v", LocationID: "l", Delta: 1, Reason: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockStockRepository)
			svc := newService(mockRepo)

			_, err := svc.AdjustStock(context.Background(), tt.adjustment)

			assert.IsType(t, &apperror.ValidationError{}, err)
			mockRepo.AssertNotCalled(t, "UpdateStockLevel", mock.Anything, mock.Anything)
		})
	}
}

func TestAdjustStock_Fail_UntypedRepositoryError(t *testing.T) {
	mockRepo := new(MockStockRepository)
	svc := newService(mockRepo)

	mockRepo.On("UpdateStockLevel", mock.Anything, mock.Anything).Return(domain.StockLevel{}, errors.New("conn reset")).Once()

	_, err := svc.AdjustStock(context.Background(), domain.StockAdjustmentRequest{VariantID: "v", LocationID: "l", Delta: 1, Reason: "x"})

	assert.IsType(t, &apperror.InternalError{}, err)
}

func TestListMovements_DelegatesReference(t *testing.T) {
	mockRepo := new(MockStockRepository)
	svc := newService(mockRepo)

	mockRepo.On("ListMovements", mock.Anything, "ex-1").Return([]domain.StockMovement{{ID: "m-1", Delta: -1}}, nil).Once()

	movements, err := svc.ListMovements(context.Background(), "ex-1")

	assert.NoError(t, err)
	assert.Len(t, movements, 1)
	mockRepo.AssertExpectations(t)
}
