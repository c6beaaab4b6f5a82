// Package auth verifies session tokens minted by the external auth
// collaborator. The gateway never issues sessions itself; it only checks
// the shared-secret signature and reads the identity and ban claims.
package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Identity is the authenticated caller as asserted by the auth collaborator.
type Identity struct {
	UserID string
	Banned bool
}

type Verifier interface {
	Verify(tokenString string) (*Identity, error)
}

type Claims struct {
	Banned bool `json:"banned"`
	jwt.RegisteredClaims
}

type jwtVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) Verifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return v.secret, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{
		UserID: claims.Subject,
		Banned: claims.Banned,
	}, nil
}
