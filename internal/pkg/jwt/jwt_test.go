package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := DefaultConfig("test-secret")

	token, err := GenerateToken("64f0a1b2c3d4e5f6a7b8c9d0", "user@example.com", "admin", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	require.Equal(t, "64f0a1b2c3d4e5f6a7b8c9d0", claims.UserID)
	require.Equal(t, "user@example.com", claims.Email)
	require.Equal(t, "admin", claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	cfg := DefaultConfig("right-secret")
	token, err := GenerateToken("abc", "a@b.c", "client", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, "wrong-secret")
	require.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := DefaultConfig("secret")
	cfg.AccessExpiry = -1 * time.Minute

	token, err := GenerateToken("abc", "a@b.c", "client", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret")
	require.Error(t, err)
}
