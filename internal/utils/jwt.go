package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/basetishop/shop_api/internal/models"
)

// SessionVerifier validates session tokens issued by the identity provider.
type SessionVerifier struct {
	secret []byte
	issuer string
}

// NewSessionVerifier creates a verifier for HS256 tokens signed with secret.
func NewSessionVerifier(secret, issuer string) *SessionVerifier {
	return &SessionVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses the token and checks signature, expiry and issuer.
func (v *SessionVerifier) Verify(token string) (*models.SessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &models.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// SessionTokenInput describes a token minted by the ops CLI and tests.
type SessionTokenInput struct {
	UserID    string
	Email     string
	SessionID string
	Admin     bool
	TTL       time.Duration
}

// Sign issues an HS256 session token in the provider's claim layout.
func (v *SessionVerifier) Sign(in SessionTokenInput) (string, error) {
	if in.UserID == "" {
		return "", errors.New("user id is required")
	}
	if in.TTL <= 0 {
		in.TTL = time.Hour
	}
	now := time.Now()
	claims := models.SessionClaims{
		Email:     in.Email,
		Role:      "authenticated",
		SessionID: in.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   in.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(in.TTL)),
		},
	}
	if in.Admin {
		claims.AppMetadata.Role = "admin"
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
