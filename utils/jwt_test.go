package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillmap-backend/config"
	"skillmap-backend/models"
)

var testCfg = &config.Config{JWTSecret: "testsecret"}

func TestJWTRoundTrip(t *testing.T) {
	user := models.User{ID: "u1", Email: "a@example.com", Name: "Alice"}
	token, err := GenerateJWTToken(user, testCfg)
	require.NoError(t, err)

	claims, err := VerifyToken(token, testCfg)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.ID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)

	// A Bearer prefix is accepted too.
	claims, err = VerifyToken("Bearer "+token, testCfg)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.ID)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    "u1",
		"email": "a@example.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	token, err := expired.SignedString([]byte(testCfg.JWTSecret))
	require.NoError(t, err)

	_, err = VerifyToken(token, testCfg)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	user := models.User{ID: "u1", Email: "a@example.com"}
	token, err := GenerateJWTToken(user, &config.Config{JWTSecret: "other"})
	require.NoError(t, err)

	_, err = VerifyToken(token, testCfg)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	_, err := VerifyToken("not-a-token", testCfg)
	assert.Error(t, err)
}
