// Package auth issues and validates the bearer tokens that ledger members use
// to call the service.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is written to and required in every token.
const Issuer = "splitledger"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
	ErrNoSecret     = errors.New("token secret must not be empty")
)

// JWTManager mints and checks HS256 member tokens.
type JWTManager struct {
	secretKey []byte
	ttl       time.Duration
	parser    *jwt.Parser
}

// Claims names the ledger member a token was minted for. The member name is
// the one written in the creditor column.
type Claims struct {
	Member string `json:"member"`
	jwt.RegisteredClaims
}

func NewJWTManager(secretKey string, ttl time.Duration) (*JWTManager, error) {
	if secretKey == "" {
		return nil, ErrNoSecret
	}
	return &JWTManager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// Generate mints a token for member.
func (m *JWTManager) Generate(member string) (string, error) {
	if member == "" {
		return "", errors.New("member name must not be empty")
	}

	now := time.Now()
	claims := &Claims{
		Member: member,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    Issuer,
			Subject:   member,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature, issuer and expiry and returns the claims.
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Member == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
