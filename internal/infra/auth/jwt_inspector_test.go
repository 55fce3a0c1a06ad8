package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("backend_only_secret_for_testing"))
	require.NoError(t, err)

	return signed
}

func TestJWTInspector_ReadsSubjectAndRoles(t *testing.T) {
	inspector := NewJWTInspector()
	token := signTestToken(t, jwt.MapClaims{
		"sub":   "u1",
		"roles": []string{"user", "admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, ok := inspector.Inspect(token)
	require.True(t, ok)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, []string{"user", "admin"}, claims.Roles)
}

func TestJWTInspector_ExpiredTokenStillReadable(t *testing.T) {
	inspector := NewJWTInspector()
	token := signTestToken(t, jwt.MapClaims{
		"id":   "u2",
		"role": "admin",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	claims, ok := inspector.Inspect(token)
	require.True(t, ok)
	assert.Equal(t, "u2", claims.Subject)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestJWTInspector_OpaqueToken(t *testing.T) {
	inspector := NewJWTInspector()

	_, ok := inspector.Inspect("opaque-session-id")
	assert.False(t, ok)

	_, ok = inspector.Inspect("")
	assert.False(t, ok)
}
