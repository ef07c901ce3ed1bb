package jwtx

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinKeyLength is the shortest HMAC key NewSignerHS256 accepts.
const MinKeyLength = 32

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256Signer signs session tokens with HMAC SHA-256. Tokens never leave
// this service so a shared secret is enough.
type HS256Signer struct {
	key []byte
}

// NewSignerHS256 creates a signer from raw key bytes.
func NewSignerHS256(key []byte) (*HS256Signer, error) {
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("jwtx: HS256 key must be at least %d bytes, got %d", MinKeyLength, len(key))
	}
	return &HS256Signer{key: key}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}
