package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otakughor/backend/internal/config"
)

func testTokenManager() *TokenManager {
	return NewTokenManager(config.JWTConfig{
		AdminSecret:     "admin-secret",
		UserSecret:      "user-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testTokenManager()

	for _, tokenType := range []string{TokenTypeAdmin, TokenTypeUser} {
		token, err := m.GenerateAccessToken("42", "luffy", "admin", tokenType)
		require.NoError(t, err)

		claims, err := m.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, "42", claims.ID)
		assert.Equal(t, "luffy", claims.Username)
		assert.Equal(t, tokenType, claims.Type)
	}
}

func TestAccessTokenSecretsAreSeparate(t *testing.T) {
	m := testTokenManager()

	userToken, err := m.GenerateAccessToken("1", "zoro", "user", TokenTypeUser)
	require.NoError(t, err)

	// refresh secret never validates an access token
	_, err = m.ValidateRefreshToken(userToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// a user-typed token signed with the admin secret is rejected
	forged, err := m.sign("1", "zoro", "user", TokenTypeUser, time.Minute, m.adminSecret)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestLegacyAdminTokenWithoutType(t *testing.T) {
	m := testTokenManager()

	token, err := m.sign("7", "nami", "admin", "", time.Minute, m.adminSecret)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Type)
}

func TestExpiredToken(t *testing.T) {
	m := testTokenManager()
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.GenerateAccessToken("1", "usopp", "user", TokenTypeUser)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateAccessToken(token)
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func TestMalformedToken(t *testing.T) {
	m := testTokenManager()

	_, err := m.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{ID: "1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(unsigned)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshToken(t *testing.T) {
	m := testTokenManager()

	token, err := m.GenerateRefreshToken("9", "sanji", "user", TokenTypeUser)
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "9", claims.ID)
	assert.Equal(t, TokenTypeUser, claims.Type)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}
