// Package auth verifies bearer credentials and enforces that callers only
// touch their own data. Verification is stateless per request; there is no
// session caching or token refresh.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chubflix/character-creator/internal/apperror"
)

const bearerPrefix = "Bearer "

// Verifier validates HS256 bearer tokens issued by the identity provider.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// VerifyHeader extracts the bearer token from an Authorization header
// value and returns the authenticated user id.
func (v *Verifier) VerifyHeader(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", apperror.ErrUnauthenticated
	}
	return v.VerifyToken(strings.TrimPrefix(header, bearerPrefix))
}

// VerifyToken validates a token and returns its subject user id.
func (v *Verifier) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperror.ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperror.ErrUnauthenticated
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", apperror.ErrUnauthenticated
	}
	return sub, nil
}

// GenerateToken mints a token for the given user id.
func (v *Verifier) GenerateToken(userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// VerifyAccess ensures the authenticated user equals the user the request
// operates on behalf of.
func VerifyAccess(authenticatedID, requestedID string) error {
	if authenticatedID != requestedID {
		return apperror.ErrForbidden
	}
	return nil
}
