package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseguard/internal/shared/authorization"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "licenseguard", 15)

	token, err := svc.GenerateAccess("user-1", "tenant-1", authorization.RoleOwner)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, authorization.RoleOwner, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret", "licenseguard", 15).GenerateAccess("u", "t", authorization.RoleOwner)
	require.NoError(t, err)

	_, err = NewJWTService("other", "licenseguard", 15).Verify(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	token, err := NewJWTService("secret", "someone-else", 15).GenerateAccess("u", "t", authorization.RoleOwner)
	require.NoError(t, err)

	_, err = NewJWTService("secret", "licenseguard", 15).Verify(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("secret", "licenseguard", 15)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := svc.GenerateAccess("u", "t", authorization.RoleOwner)
	require.NoError(t, err)

	_, err = NewJWTService("secret", "licenseguard", 15).Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func signClaims(t *testing.T, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestJWTService_RejectsRefreshToken(t *testing.T) {
	token := signClaims(t, &Claims{
		UserID:    "u",
		TenantID:  "t",
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "licenseguard",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := NewJWTService("secret", "licenseguard", 15).Verify(token)
	assert.ErrorIs(t, err, ErrNotAccessToken)
}

func TestJWTService_RejectsMissingTenant(t *testing.T) {
	token := signClaims(t, &Claims{
		UserID:    "u",
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "licenseguard",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := NewJWTService("secret", "licenseguard", 15).Verify(token)
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

func TestJWTService_RejectsOtherAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:    "u",
		TenantID:  "t",
		TokenType: TokenTypeAccess,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService("secret", "", 15).Verify(token)
	assert.Error(t, err)
}
