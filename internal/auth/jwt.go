package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoToken is returned when the request carries no bearer token.
	ErrNoToken = errors.New("auth: no bearer token")
	// ErrInvalidToken covers signature, expiry and claim failures.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims is the token payload issued for this service. Projects, when
// set, restricts which ledgers the token may open; an absent list
// leaves the token scoped to the whole tenant.
type Claims struct {
	TenantID string   `json:"tenant_id"`
	Role     string   `json:"role"`
	Projects []string `json:"projects,omitempty"`
	jwt.RegisteredClaims
}

// VerifyToken validates an HS256 token and returns the caller identity.
// Expiry is mandatory: statement access must not outlive the token.
func VerifyToken(tokenString string, secret []byte) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrNoToken
	}
	if len(secret) == 0 {
		return Identity{}, errors.New("auth: empty secret")
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TenantID == "" {
		return Identity{}, fmt.Errorf("%w: missing tenant_id", ErrInvalidToken)
	}
	role, err := ParseRole(claims.Role)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return Identity{
		TenantID: claims.TenantID,
		Subject:  claims.Subject,
		Role:     role,
		Projects: claims.Projects,
	}, nil
}
