package locationservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gostore/config"
	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
	"gostore/internal/service/locationservice"
)

// MockLocationRepository é uma implementação mock da interface domain.LocationRepository
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Save(ctx context.Context, loc domain.StoreLocation) (domain.StoreLocation, error) {
	args := m.Called(ctx, loc)
	return args.Get(0).(domain.StoreLocation), args.Error(1)
}

func (m *MockLocationRepository) FindByID(ctx context.Context, id string) (domain.StoreLocation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.StoreLocation), args.Error(1)
}

func (m *MockLocationRepository) FindAll(ctx context.Context) ([]domain.StoreLocation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.StoreLocation), args.Error(1)
}

func (m *MockLocationRepository) Update(ctx context.Context, loc domain.StoreLocation) (domain.StoreLocation, error) {
	args := m.Called(ctx, loc)
	return args.Get(0).(domain.StoreLocation), args.Error(1)
}

func (m *MockLocationRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLocationRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

const locID = "0d3c2f8e-6a7b-4c1d-9e2f-aaaaaaaaaaaa"

func validInput() domain.LocationInput {
	return domain.LocationInput{
		Name:    "Loja Centro",
		Address: "Rua Direita, 100",
		Hours: []domain.DayHours{
			{Day: "monday", Open: "09:00", Close: "18:00"},
			{Day: "sunday", Closed: true},
		},
		SocialLinks: domain.SocialLinks{Instagram: "@lojacentro"},
	}
}

func TestCreateLocation_Success(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, nil, logger.NewNop())

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(loc domain.StoreLocation) bool {
		return loc.ID != "" && loc.Name == "Loja Centro" && len(loc.Hours) == 2 && !loc.CreatedAt.IsZero()
	})).Return(domain.StoreLocation{ID: locID, Name: "Loja Centro"}, nil)

	created, err := svc.CreateLocation(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, locID, created.ID)
	mockRepo.AssertExpectations(t)
}

func TestCreateLocation_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.LocationInput)
	}{
		{"empty name", func(in *domain.LocationInput) { in.Name = "  " }},
		{"short name", func(in *domain.LocationInput) { in.Name = "AB" }},
		{"unknown day", func(in *domain.LocationInput) { in.Hours[0].Day = "funday" }},
		{"repeated day", func(in *domain.LocationInput) { in.Hours[1] = in.Hours[0] }},
		{"bad time format", func(in *domain.LocationInput) { in.Hours[0].Open = "9h" }},
		{"open after close", func(in *domain.LocationInput) { in.Hours[0].Open = "19:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockLocationRepository)
			svc := locationservice.NewService(mockRepo, nil, logger.NewNop())
			in := validInput()
			tt.mutate(&in)

			_, err := svc.CreateLocation(context.Background(), in)

			assert.IsType(t, &apperror.ValidationError{}, err)
			mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestGetLocationByID_ResolvesSquareFromConfig(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	squares := config.SquareLocationMap{locID: "L8SQUARE"}
	svc := locationservice.NewService(mockRepo, squares, logger.NewNop())

	mockRepo.On("FindByID", mock.Anything, locID).Return(domain.StoreLocation{ID: locID}, nil)

	loc, err := svc.GetLocationByID(context.Background(), locID)

	require.NoError(t, err)
	assert.Equal(t, "L8SQUARE", loc.SquareLocationID)
}

func TestGetLocationByID_StoredSquareWins(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	squares := config.SquareLocationMap{locID: "L8CONFIG"}
	svc := locationservice.NewService(mockRepo, squares, logger.NewNop())

	mockRepo.On("FindByID", mock.Anything, locID).Return(domain.StoreLocation{ID: locID, SquareLocationID: "L8STORED"}, nil)

	loc, err := svc.GetLocationByID(context.Background(), locID)

	require.NoError(t, err)
	assert.Equal(t, "L8STORED", loc.SquareLocationID)
}

func TestGetLocationByID_NotFound(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, nil, logger.NewNop())

	mockRepo.On("FindByID", mock.Anything, "bad-id").Return(domain.StoreLocation{}, apperror.NewNotFoundError("x"))

	_, err := svc.GetLocationByID(context.Background(), "bad-id")

	assert.True(t, apperror.IsNotFound(err))
}

func TestGetAllLocations_AppliesSquareMap(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, config.SquareLocationMap{"b": "SQB"}, logger.NewNop())

	mockRepo.On("FindAll", mock.Anything).Return([]domain.StoreLocation{{ID: "a"}, {ID: "b"}}, nil)

	locations, err := svc.GetAllLocations(context.Background())

	require.NoError(t, err)
	assert.Empty(t, locations[0].SquareLocationID)
	assert.Equal(t, "SQB", locations[1].SquareLocationID)
}

func TestUpdateLocation_KeepsCreatedAt(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, nil, logger.NewNop())

	current := domain.StoreLocation{ID: locID, Name: "Antiga"}
	mockRepo.On("FindByID", mock.Anything, locID).Return(current, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(loc domain.StoreLocation) bool {
		return loc.ID == locID && loc.Name == "Loja Centro" && !loc.UpdatedAt.IsZero()
	})).Return(domain.StoreLocation{ID: locID, Name: "Loja Centro"}, nil)

	updated, err := svc.UpdateLocation(context.Background(), locID, validInput())

	require.NoError(t, err)
	assert.Equal(t, "Loja Centro", updated.Name)
	mockRepo.AssertExpectations(t)
}

func TestDeleteLocation_PassesThroughConflict(t *testing.T) {
	mockRepo := new(MockLocationRepository)
	svc := locationservice.NewService(mockRepo, nil, logger.NewNop())

	mockRepo.On("Delete", mock.Anything, locID).Return(apperror.NewConflictError("vinculada"))

	err := svc.DeleteLocation(context.Background(), locID)

	assert.IsType(t, &apperror.ConflictError{}, err)
}
