package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youtools/youtools-backend/internal/apperr"
	"github.com/youtools/youtools-backend/internal/logging"
)

func TestResolve(t *testing.T) {
	verifier := NewTokenVerifier("secret", "youtools")
	valid, err := verifier.Mint("user-1", "", time.Hour)
	require.NoError(t, err)

	r := NewResolver(verifier, logging.Discard())

	tests := []struct {
		name        string
		extension   bool
		authHeader  string
		session     string
		wantSubject string
		wantErr     bool
	}{
		{"extension with bearer", true, "Bearer " + valid, "", "user-1", false},
		{"extension without bearer", true, "", valid, "", true},
		{"extension with bad bearer", true, "Bearer junk", "", "", true},
		{"browser with session", false, "", valid, "user-1", false},
		{"browser anonymous", false, "", "", "", false},
		{"browser with bad session", false, "", "junk", "", false},
		{"browser ignores bearer", false, "Bearer " + valid, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := r.Resolve(tt.extension, tt.authHeader, tt.session)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, apperr.KindAuth))
				return
			}
			require.NoError(t, err)
			if tt.wantSubject == "" {
				assert.Nil(t, identity)
				return
			}
			require.NotNil(t, identity)
			assert.Equal(t, tt.wantSubject, identity.Subject)
		})
	}
}

func TestResolveExtensionWithoutSecret(t *testing.T) {
	r := NewResolver(NewTokenVerifier("", ""), logging.Discard())

	_, err := r.Resolve(true, "Bearer abc", "")
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	identity, err := r.Resolve(false, "", "abc")
	assert.NoError(t, err)
	assert.Nil(t, identity)
}
