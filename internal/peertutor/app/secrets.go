package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/peertutor/pkg/cryptox"
)

// minSecretLength is the shortest PEERTUTOR_SESSION_SECRET accepted.
const minSecretLength = 32

// sessionKeys holds the keys derived from the session secret.
type sessionKeys struct {
	JWT       []byte // HS256 session tokens
	FlashAuth []byte // flash cookie signature
	FlashEnc  []byte // flash cookie encryption (AES-256)
}

// deriveSessionKeys derives one key per purpose from secret. Without a
// secret a random one is generated, so sessions do not survive a restart.
func deriveSessionKeys(secret string, logger *slog.Logger) (sessionKeys, error) {
	if secret == "" {
		generated, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return sessionKeys{}, fmt.Errorf("generate session secret: %w", err)
		}
		logger.Warn("PEERTUTOR_SESSION_SECRET not set, using a random secret; sessions end on restart")
		secret = generated
	}
	if len(secret) < minSecretLength {
		return sessionKeys{}, fmt.Errorf("session secret must be at least %d characters, got %d", minSecretLength, len(secret))
	}

	return sessionKeys{
		JWT:       cryptox.DeriveKey(secret, "peertutor/session-jwt"),
		FlashAuth: cryptox.DeriveKey(secret, "peertutor/flash-auth"),
		FlashEnc:  cryptox.DeriveKey(secret, "peertutor/flash-enc"),
	}, nil
}
