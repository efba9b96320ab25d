package auth

import (
	"github.com/sirupsen/logrus"

	"github.com/youtools/youtools-backend/internal/apperr"
)

// Resolver decides who is calling from the request credentials.
type Resolver struct {
	verifier *TokenVerifier
	logger   *logrus.Logger
}

// NewResolver creates a new identity resolver
func NewResolver(verifier *TokenVerifier, logger *logrus.Logger) *Resolver {
	return &Resolver{verifier: verifier, logger: logger}
}

// Resolve returns the caller identity. Extension callers must present a
// valid bearer token. Browser callers are identified by their session
// token when it verifies and are anonymous (nil, nil) otherwise.
func (r *Resolver) Resolve(extension bool, authHeader, sessionToken string) (*Identity, error) {
	if extension {
		token := ExtractTokenFromBearer(authHeader)
		if token == "" {
			return nil, apperr.Auth("missing bearer token", nil)
		}
		return r.verifier.Verify(token)
	}

	if sessionToken == "" || !r.verifier.Configured() {
		return nil, nil
	}

	identity, err := r.verifier.Verify(sessionToken)
	if err != nil {
		r.logger.WithError(err).Debug("Ignoring invalid session token")
		return nil, nil
	}
	return identity, nil
}
