package utils

import (
	"testing"

	"josaa-predictor/config"
	"josaa-predictor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePasswords(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.True(t, ComparePasswords(hash, "correct-horse-battery"))
	assert.False(t, ComparePasswords(hash, "wrong-password"))
	assert.False(t, ComparePasswords("not-a-hash", "correct-horse-battery"))
}

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	user := models.User{ID: 42, Username: "rahul", Email: "rahul@example.com"}

	token, err := GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, "josaa-predictor", claims["iss"])
	assert.Equal(t, "rahul", claims["username"])
	assert.Equal(t, "rahul@example.com", claims["email"])

	id, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, 42, id)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateToken(models.User{ID: 1, Username: "u", Email: "u@example.com"})
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)

	_, err = ParseToken("garbage.token.value")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	token, err := GenerateToken(models.User{ID: 1, Username: "u", Email: "u@example.com"})
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "another-secret"
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	config.AppConfig.JWTSecret = ""
	_, err := GenerateToken(models.User{ID: 1})
	assert.Error(t, err)
}
