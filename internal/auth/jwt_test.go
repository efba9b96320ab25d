package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youtools/youtools-backend/internal/apperr"
)

func TestMintAndVerify(t *testing.T) {
	v := NewTokenVerifier("secret", "youtools")

	token, err := v.Mint("user-1", "a@example.com", time.Hour)
	require.NoError(t, err)

	identity, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.Subject)
	assert.Equal(t, "a@example.com", identity.Email)
}

func TestVerifyRejects(t *testing.T) {
	v := NewTokenVerifier("secret", "youtools")
	other := NewTokenVerifier("other-secret", "youtools")

	wrongKey, err := other.Mint("user-1", "", time.Hour)
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong key", wrongKey},
		{"expired", expired},
		{"no subject", noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindAuth))
		})
	}
}

func TestVerifyWithoutSecret(t *testing.T) {
	v := NewTokenVerifier("", "youtools")
	assert.False(t, v.Configured())

	_, err := v.Verify("anything")
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	_, err = v.Mint("user-1", "", time.Hour)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestExtractTokenFromBearer(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromBearer("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromBearer("bearer abc"))
	assert.Equal(t, "", ExtractTokenFromBearer("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromBearer("Bearer"))
}
