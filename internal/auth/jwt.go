package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/youtools/youtools-backend/internal/apperr"
)

const (
	// DefaultTokenTTL is the lifetime of minted extension tokens.
	DefaultTokenTTL = 30 * 24 * time.Hour
	DefaultIssuer   = "youtools"
)

var (
	// ErrInvalidClaims is returned when token claims are invalid
	ErrInvalidClaims = errors.New("invalid token claims")
	// ErrMissingSubject is returned for tokens without a subject
	ErrMissingSubject = errors.New("token has no subject")
)

// Claims are the claims carried by session and extension tokens.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller.
type Identity struct {
	Subject string
	Email   string
}

// TokenVerifier verifies and mints HS256 tokens signed with a shared secret.
type TokenVerifier struct {
	secretKey []byte
	issuer    string
}

// NewTokenVerifier creates a new token verifier. An empty secret yields a
// verifier that rejects every token.
func NewTokenVerifier(secretKey string, issuer string) *TokenVerifier {
	return &TokenVerifier{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

// Configured reports whether a signing secret is set.
func (v *TokenVerifier) Configured() bool {
	return len(v.secretKey) > 0
}

// Verify validates a token and returns the identity it carries.
func (v *TokenVerifier) Verify(tokenString string) (*Identity, error) {
	if !v.Configured() {
		return nil, apperr.Auth("token secret is not configured", nil)
	}
	if tokenString == "" {
		return nil, apperr.Auth("missing token", nil)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secretKey, nil
	})
	if err != nil {
		return nil, apperr.Auth("invalid token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.Auth("invalid token", ErrInvalidClaims)
	}
	if claims.Subject == "" {
		return nil, apperr.Auth("invalid token", ErrMissingSubject)
	}

	return &Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

// Mint issues a token for subject valid for ttl.
func (v *TokenVerifier) Mint(subject, email string, ttl time.Duration) (string, error) {
	if !v.Configured() {
		return "", apperr.Auth("token secret is not configured", nil)
	}
	if subject == "" {
		return "", ErrMissingSubject
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secretKey)
}

// ExtractTokenFromBearer extracts token from "Bearer <token>" format
func ExtractTokenFromBearer(authHeader string) string {
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
