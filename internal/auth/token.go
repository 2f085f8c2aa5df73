// Package auth issues and verifies the signed bearer credentials that
// gate protected operations.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the validity window of an issued credential.
const TokenTTL = time.Hour

// ErrInvalidToken is returned when a credential cannot be parsed, fails
// signature verification, or has expired.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the account binding inside a credential.
type Claims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies credentials. Verification is stateless;
// the revocation set lives elsewhere.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the validity window of issued credentials.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue produces a signed credential bound to accountID.
func (m *TokenManager) Issue(accountID string) (string, error) {
	now := time.Now()

	claims := &Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "tripbook",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks the signature and expiry and returns the bound account ID.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.AccountID == "" {
		return "", ErrInvalidToken
	}

	return claims.AccountID, nil
}

// RemainingValidity returns how long the credential is still good for,
// ignoring signature validity. Used to size revocation entries; a token we
// cannot read at all gets the full window, which is harmless since the
// entry expires on its own.
func (m *TokenManager) RemainingValidity(tokenString string) time.Duration {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	var claims Claims
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return m.ttl
	}
	if claims.ExpiresAt == nil {
		return m.ttl
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 || remaining > m.ttl {
		return m.ttl
	}
	return remaining
}
