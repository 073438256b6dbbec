package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostore/internal/domain"
	"gostore/internal/pkg/cache"
	"gostore/internal/pkg/logger"
	"gostore/internal/pkg/middleware"
	"gostore/internal/pkg/token"
)

type fakeTokenService struct {
	claims *token.CustomClaims
	err    error
}

func (f fakeTokenService) ValidateToken(string) (*token.CustomClaims, error) {
	return f.claims, f.err
}

func okHandler(t *testing.T, wantRole domain.StaffRole) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantRole, claims.Role)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	h := middleware.NewAuthMiddleware(fakeTokenService{})(okHandler(t, ""))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/exchanges", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body domain.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "UNAUTHORIZED", body.Category)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	h := middleware.NewAuthMiddleware(fakeTokenService{err: errors.New("expirado")})(okHandler(t, ""))

	req := httptest.NewRequest(http.MethodGet, "/v1/exchanges", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAndPermission_Allowed(t *testing.T) {
	svc := fakeTokenService{claims: &token.CustomClaims{StaffID: "s-1", Role: "manager"}}
	h := middleware.NewAuthMiddleware(svc)(
		middleware.PermissionMiddleware(domain.RoleAdmin, domain.RoleManager)(okHandler(t, domain.RoleManager)),
	)

	req := httptest.NewRequest(http.MethodPost, "/v1/exchanges/1/status", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPermission_Forbidden(t *testing.T) {
	svc := fakeTokenService{claims: &token.CustomClaims{StaffID: "s-2", Role: "staff"}}
	h := middleware.NewAuthMiddleware(svc)(
		middleware.PermissionMiddleware(domain.RoleAdmin, domain.RoleManager)(okHandler(t, domain.RoleStaff)),
	)

	req := httptest.NewRequest(http.MethodPost, "/v1/exchanges/1/status", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPermission_WithoutClaims(t *testing.T) {
	h := middleware.PermissionMiddleware(domain.RoleAdmin)(okHandler(t, domain.RoleAdmin))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := middleware.RateLimiter(cache.NewMemoryClient(), 2, time.Minute, logger.NewNop())
	h := limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

type failingCache struct{ cache.Client }

func (failingCache) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("redis fora do ar")
}

func TestRateLimiter_CacheFailureLetsRequestThrough(t *testing.T) {
	h := middleware.RateLimiter(failingCache{}, 1, time.Minute, logger.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
