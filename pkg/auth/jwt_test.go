package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() JWTConfig {
	return JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "techtree-backend",
		Audience:  []string{DefaultAudience},
	}
}

func TestJWT_RoundTrip(t *testing.T) {
	// Arrange
	gen, err := NewJWTGenerator(testConfig(), time.Hour)
	require.NoError(t, err)
	val, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	// Act
	token, err := gen.GenerateToken("user-1", "u@example.com", []string{"admin"})
	require.NoError(t, err)
	claims, err := val.ValidateToken("Bearer " + token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestJWT_Rejections(t *testing.T) {
	val, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	expiredGen, _ := NewJWTGenerator(testConfig(), -time.Minute)
	expired, _ := expiredGen.GenerateToken("user-1", "", nil)

	otherCfg := testConfig()
	otherCfg.SecretKey = "other-secret"
	otherGen, _ := NewJWTGenerator(otherCfg, time.Hour)
	forged, _ := otherGen.GenerateToken("user-1", "", nil)

	wrongIss := testConfig()
	wrongIss.Issuer = "someone-else"
	issGen, _ := NewJWTGenerator(wrongIss, time.Hour)
	foreign, _ := issGen.GenerateToken("user-1", "", nil)

	noSubGen, _ := NewJWTGenerator(testConfig(), time.Hour)
	noSub, _ := noSubGen.GenerateToken("", "", nil)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"expired", expired, ErrExpiredToken},
		{"bad signature", forged, ErrInvalidSignature},
		{"wrong issuer", foreign, ErrInvalidToken},
		{"missing subject", noSub, ErrInvalidClaims},
		{"garbage", "not.a.jwt", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := val.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserContext(t *testing.T) {
	ctx := SetUserInContext(context.Background(), &UserContext{UserID: "u", Roles: []string{"admin"}})

	user, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.True(t, user.HasRole("admin"))
	assert.False(t, user.HasRole("editor"))

	_, err = GetUserFromContext(context.Background())
	assert.Error(t, err)
}

func TestNewJWTValidator_RequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}
