package faqservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
	"gostore/internal/service/faqservice"
)

type MockFAQRepository struct {
	mock.Mock
}

func (m *MockFAQRepository) Save(ctx context.Context, f domain.FAQ) (domain.FAQ, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.FAQ), args.Error(1)
}

func (m *MockFAQRepository) FindByID(ctx context.Context, id string) (domain.FAQ, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.FAQ), args.Error(1)
}

func (m *MockFAQRepository) FindBySlug(ctx context.Context, s string) (domain.FAQ, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.FAQ), args.Error(1)
}

func (m *MockFAQRepository) FindAll(ctx context.Context, publishedOnly bool) ([]domain.FAQ, error) {
	args := m.Called(ctx, publishedOnly)
	return args.Get(0).([]domain.FAQ), args.Error(1)
}

func (m *MockFAQRepository) Update(ctx context.Context, f domain.FAQ) (domain.FAQ, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.FAQ), args.Error(1)
}

func (m *MockFAQRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func withSlug(s string) interface{} {
	return mock.MatchedBy(func(f domain.FAQ) bool { return f.Slug == s })
}

func TestCreate_SlugFromQuestion(t *testing.T) {
	repo := new(MockFAQRepository)
	svc := faqservice.NewService(repo, logger.NewNop())

	repo.On("Save", mock.Anything, withSlug("qual-o-prazo-de-troca")).Return(domain.FAQ{Slug: "qual-o-prazo-de-troca"}, nil)

	f, err := svc.Create(context.Background(), domain.FAQInput{Question: "Qual o prazo de troca?", Answer: "30 dias."})

	require.NoError(t, err)
	assert.Equal(t, "qual-o-prazo-de-troca", f.Slug)
}

func TestCreate_SuffixOnConflict(t *testing.T) {
	repo := new(MockFAQRepository)
	svc := faqservice.NewService(repo, logger.NewNop())

	repo.On("Save", mock.Anything, withSlug("entrega")).Return(domain.FAQ{}, apperror.NewConflictError("dup")).Once()
	repo.On("Save", mock.Anything, withSlug("entrega-2")).Return(domain.FAQ{}, apperror.NewConflictError("dup")).Once()
	repo.On("Save", mock.Anything, withSlug("entrega-3")).Return(domain.FAQ{Slug: "entrega-3"}, nil).Once()

	f, err := svc.Create(context.Background(), domain.FAQInput{Question: "Entrega", Answer: "Sim."})

	require.NoError(t, err)
	assert.Equal(t, "entrega-3", f.Slug)
	repo.AssertExpectations(t)
}

func TestCreate_GivesUpAfterFiveAttempts(t *testing.T) {
	repo := new(MockFAQRepository)
	svc := faqservice.NewService(repo, logger.NewNop())

	repo.On("Save", mock.Anything, mock.Anything).Return(domain.FAQ{}, apperror.NewConflictError("dup"))

	_, err := svc.Create(context.Background(), domain.FAQInput{Question: "Entrega", Answer: "Sim."})

	assert.IsType(t, &apperror.ConflictError{}, err)
	repo.AssertNumberOfCalls(t, "Save", 5)
}

func TestCreate_Validation(t *testing.T) {
	repo := new(MockFAQRepository)
	svc := faqservice.NewService(repo, logger.NewNop())

	for _, in := range []domain.FAQInput{
		{Question: "", Answer: "x"},
		{Question: "?!", Answer: "x"},
		{Question: "Ok", Answer: "x", Position: -1},
	} {
		_, err := svc.Create(context.Background(), in)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdate_KeepsSlugWhenQuestionUnchanged(t *testing.T) {
	repo := new(MockFAQRepository)
	svc := faqservice.NewService(repo, logger.NewNop())

	repo.On("FindByID", mock.Anything, "f-1").Return(domain.FAQ{ID: "f-1", Question: "Entrega", Slug: "entrega-2"}, nil)
	repo.On("Update", mock.Anything, withSlug("entrega-2")).Return(domain.FAQ{Slug: "entrega-2"}, nil)

	f, err := svc.Update(context.Background(), "f-1", domain.FAQInput{Question: "Entrega", Answer: "Em 3 dias."})

	require.NoError(t, err)
	assert.Equal(t, "entrega-2", f.Slug)
}

func TestGetBySlug_HidesUnpublished(t *testing.T) {
	repo := new(MockFAQRepository)
	svc := faqservice.NewService(repo, logger.NewNop())

	repo.On("FindBySlug", mock.Anything, "rascunho").Return(domain.FAQ{Slug: "rascunho", Published: false}, nil)

	_, err := svc.GetBySlug(context.Background(), "rascunho")

	assert.True(t, apperror.IsNotFound(err))
}
