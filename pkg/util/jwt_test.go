package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtTestSecret = "storefront-test-signing-key"

func issueTestPair(t *testing.T, userID uint, email, role string) *TokenPair {
	t.Helper()
	tokens, err := GenerateTokenPair(userID, email, role, jwtTestSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	return tokens
}

func TestGenerateTokenPair_SubjectsDistinguishHalves(t *testing.T) {
	tokens := issueTestPair(t, 7, "shopper@storefront.dev", "user")

	access, err := ValidateToken(tokens.AccessToken, jwtTestSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenSubjectAccess, access.Subject)

	refresh, err := ValidateToken(tokens.RefreshToken, jwtTestSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenSubjectRefresh, refresh.Subject)
}

func TestValidateToken_CarriesUserClaims(t *testing.T) {
	tokens := issueTestPair(t, 42, "admin@storefront.dev", "admin")

	claims, err := ValidateToken(tokens.AccessToken, jwtTestSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@storefront.dev", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.True(t, claims.IssuedAt.Before(claims.ExpiresAt.Time))
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tokens := issueTestPair(t, 1, "shopper@storefront.dev", "user")

	claims, err := ValidateToken(tokens.AccessToken, "some-other-key")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestValidateToken_Malformed(t *testing.T) {
	for _, token := range []string{"", "garbage", "only.two", "a.b.c"} {
		claims, err := ValidateToken(token, jwtTestSecret)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	tokens, err := GenerateTokenPair(1, "shopper@storefront.dev", "user", jwtTestSecret, -time.Minute, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(tokens.AccessToken, jwtTestSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}
