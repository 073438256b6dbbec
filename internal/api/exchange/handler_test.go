package exchange_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gostore/internal/api/exchange"
	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/logger"
	"gostore/internal/pkg/middleware"
)

type MockExchangeService struct {
	mock.Mock
}

func (m *MockExchangeService) Create(ctx context.Context, in domain.ExchangeInput) (domain.Exchange, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.Exchange), args.Error(1)
}

func (m *MockExchangeService) GetByID(ctx context.Context, id string) (domain.Exchange, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Exchange), args.Error(1)
}

func (m *MockExchangeService) List(ctx context.Context, f domain.ExchangeFilter) ([]domain.Exchange, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Exchange), args.Error(1)
}

func (m *MockExchangeService) Update(ctx context.Context, id string, c domain.ExchangeChanges) (domain.Exchange, error) {
	args := m.Called(ctx, id, c)
	return args.Get(0).(domain.Exchange), args.Error(1)
}

func (m *MockExchangeService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockExchangeService) Transition(ctx context.Context, id string, target domain.ExchangeStatus, c domain.ExchangeChanges) (domain.TransitionResult, error) {
	args := m.Called(ctx, id, target, c)
	return args.Get(0).(domain.TransitionResult), args.Error(1)
}

// newMux registra as rotas como o router faz, para que PathValue funcione.
func newMux(svc exchange.ExchangeService) *http.ServeMux {
	h := exchange.NewHandler(svc, logger.NewNop())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/exchanges", h.CreateExchangeHandler)
	mux.HandleFunc("GET /v1/exchanges", h.ListExchangesHandler)
	mux.HandleFunc("GET /v1/exchanges/{id}", h.GetExchangeHandler)
	mux.HandleFunc("PATCH /v1/exchanges/{id}", h.UpdateExchangeHandler)
	mux.HandleFunc("DELETE /v1/exchanges/{id}", h.DeleteExchangeHandler)
	mux.HandleFunc("POST /v1/exchanges/{id}/status", h.TransitionHandler)
	return mux
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()
	var body domain.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestTransitionHandler_Approved(t *testing.T) {
	svc := new(MockExchangeService)
	svc.On("Transition", mock.Anything, "ex-1", domain.ExchangeStatusApproved, domain.ExchangeChanges{}).
		Return(domain.TransitionResult{Exchange: domain.Exchange{ID: "ex-1", Status: domain.ExchangeStatusApproved}, Changed: true}, nil)

	rec := do(newMux(svc), http.MethodPost, "/v1/exchanges/ex-1/status", `{"status":"Approved"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var result domain.TransitionResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.True(t, result.Changed)
	assert.Equal(t, domain.ExchangeStatusApproved, result.Exchange.Status)
}

func TestTransitionHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		category string
	}{
		{"not found", apperror.NewNotFoundError("x"), http.StatusNotFound, "NOT_FOUND"},
		{"invalid status", apperror.NewInvalidStatusError("Done"), http.StatusBadRequest, "INVALID_STATUS"},
		{"invalid transition", apperror.NewInvalidTransitionError("Approved", "Pending"), http.StatusConflict, "INVALID_TRANSITION"},
		{"stock failure", apperror.NewStockAdjustmentFailedError("x", nil), http.StatusConflict, "STOCK_ADJUSTMENT_FAILED"},
		{"persist failure", apperror.NewPersistFailedError("x", nil), http.StatusInternalServerError, "PERSIST_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockExchangeService)
			svc.On("Transition", mock.Anything, "ex-1", mock.Anything, mock.Anything).Return(domain.TransitionResult{}, tt.err)

			rec := do(newMux(svc), http.MethodPost, "/v1/exchanges/ex-1/status", `{"status":"Approved"}`)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.category, decodeError(t, rec).Category)
		})
	}
}

func TestTransitionHandler_MalformedBody(t *testing.T) {
	svc := new(MockExchangeService)

	rec := do(newMux(svc), http.MethodPost, "/v1/exchanges/ex-1/status", `{"status":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateExchangeHandler_Created(t *testing.T) {
	svc := new(MockExchangeService)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in domain.ExchangeInput) bool {
		return in.CustomerID == "c-1" && in.NewVariationID != nil && *in.NewVariationID == "v2"
	})).Return(domain.Exchange{ID: "ex-9", Status: domain.ExchangeStatusPending}, nil)

	rec := do(newMux(svc), http.MethodPost, "/v1/exchanges",
		`{"customer_id":"c-1","returned_item_id":"i-1","new_item_id":"i-2","new_variation_id":"v2","processed_by":"s-1","location_id":"l-1"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Pending"`)
}

func TestCreateExchangeHandler_MissingReference(t *testing.T) {
	svc := new(MockExchangeService)
	svc.On("Create", mock.Anything, mock.Anything).Return(domain.Exchange{}, apperror.NewReferencedEntityMissingError("customer", "c-x"))

	rec := do(newMux(svc), http.MethodPost, "/v1/exchanges", `{"customer_id":"c-x"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "REFERENCED_ENTITY_MISSING", decodeError(t, rec).Category)
}

func TestListExchangesHandler_PassesFilter(t *testing.T) {
	svc := new(MockExchangeService)
	svc.On("List", mock.Anything, domain.ExchangeFilter{Status: domain.ExchangeStatusPending, LocationID: "l-1", Page: 2, Limit: 5}).
		Return([]domain.Exchange{{ID: "ex-1"}}, nil)

	rec := do(newMux(svc), http.MethodGet, "/v1/exchanges?status=Pending&location_id=l-1&page=2&limit=5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDeleteExchangeHandler(t *testing.T) {
	svc := new(MockExchangeService)
	svc.On("Delete", mock.Anything, "ex-1").Return(nil)
	svc.On("Delete", mock.Anything, "ex-2").Return(apperror.NewConflictError("aprovada"))
	mux := newMux(svc)

	assert.Equal(t, http.StatusNoContent, do(mux, http.MethodDelete, "/v1/exchanges/ex-1", "").Code)
	assert.Equal(t, http.StatusConflict, do(mux, http.MethodDelete, "/v1/exchanges/ex-2", "").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	svc := new(MockExchangeService)

	rec := do(newMux(svc), http.MethodPut, "/v1/exchanges/ex-1", "{}")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUpdateExchangeHandler_StatusNeedsManager(t *testing.T) {
	svc := new(MockExchangeService)
	approved := domain.ExchangeStatusApproved
	svc.On("Update", mock.Anything, "ex-1", domain.ExchangeChanges{Status: &approved}).
		Return(domain.Exchange{ID: "ex-1", Status: approved}, nil)
	mux := newMux(svc)

	asRole := func(role domain.StaffRole) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/v1/exchanges/ex-1", strings.NewReader(`{"status":"Approved"}`))
		req = req.WithContext(middleware.WithUserClaims(req.Context(), middleware.UserClaims{StaffID: "s-1", Role: role}))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	rec := asRole(domain.RoleStaff)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)

	rec = asRole(domain.RoleManager)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
