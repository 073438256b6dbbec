package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService("segredo-de-teste", time.Hour)

	tokenString, err := svc.GenerateToken("staff-1", "manager", "loc-3")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.StaffID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "loc-3", claims.LocationID)
	assert.Equal(t, "GoStore-API", claims.Issuer)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewService("segredo-de-teste", time.Minute)
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	tokenString, err := svc.GenerateToken("staff-1", "staff", "")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tokenString, err := NewService("segredo-a", time.Hour).GenerateToken("staff-1", "admin", "")
	require.NoError(t, err)

	_, err = NewService("segredo-b", time.Hour).ValidateToken(tokenString)
	assert.Error(t, err)
}
