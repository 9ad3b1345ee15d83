package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestUserTokenRoundTrip(t *testing.T) {
	token, err := GenerateUserToken(testSecret, "user_abc", "13812345678", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)

	assert.Equal(t, "user_abc", claims.UserID)
	assert.Equal(t, "13812345678", claims.Phone)
	assert.Equal(t, RoleUser, claims.Role)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken(testSecret, "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)

	assert.Equal(t, "admin", claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Empty(t, claims.Phone)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateUserToken(testSecret, "user_abc", "13812345678", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateUserToken(testSecret, "user_abc", "13812345678", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
