package utils

import (
	"fmt"
	"time"

	"crowd-bidding/internal/biddingerrors"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorRole is the role claim required on operator routes
const OperatorRole = "operator"

// OperatorClaims identifies a DJ operator and the organization they run
type OperatorClaims struct {
	Role           string `json:"role"`
	OrganizationID string `json:"org"`
	jwt.RegisteredClaims
}

// NewOperatorToken signs an HS256 operator token for organizationID
func NewOperatorToken(secret, subject, organizationID string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := OperatorClaims{
		Role:           OperatorRole,
		OrganizationID: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseOperatorToken verifies raw and returns its claims
func ParseOperatorToken(secret, raw string) (*OperatorClaims, error) {
	claims := &OperatorClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: invalid operator token: %v", biddingerrors.ErrUnauthorized, err)
	}
	if claims.Role != OperatorRole || claims.OrganizationID == "" {
		return nil, fmt.Errorf("%w: token is not an operator token", biddingerrors.ErrUnauthorized)
	}
	return claims, nil
}
