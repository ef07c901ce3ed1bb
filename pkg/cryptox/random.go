package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Reset passwords are 13 characters drawn from a 64 symbol alphabet.
const (
	ResetPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+?"
	ResetPasswordLength   = 13
)

// GenerateResetPassword returns a fresh password for the reset email.
func GenerateResetPassword() (string, error) {
	return RandomString(ResetPasswordAlphabet, ResetPasswordLength)
}

// RandomString returns n characters drawn uniformly from alphabet using
// crypto/rand.
func RandomString(alphabet string, n int) (string, error) {
	return RandomStringFrom(rand.Reader, alphabet, n)
}

// RandomStringFrom is RandomString over an arbitrary byte source.
//
// When len(alphabet) divides 256 every byte is reduced modulo the alphabet
// size. Otherwise bytes at or above the largest multiple of the size are
// discarded and redrawn.
func RandomStringFrom(src io.Reader, alphabet string, n int) (string, error) {
	size := len(alphabet)
	if size == 0 || size > 256 {
		return "", errors.New("alphabet must hold between 1 and 256 symbols")
	}
	if n <= 0 {
		return "", fmt.Errorf("length must be positive, got %d", n)
	}

	limit := 256 - 256%size
	out := make([]byte, 0, n)
	buf := make([]byte, n)

	for len(out) < n {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%size])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}
