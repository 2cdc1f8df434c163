// Package auth gates the admin channel behind a shared secret. The secret is
// digested with argon2id at startup so the plaintext is never kept around and
// candidate checks are constant-time.
package auth

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 2
	argonKeyLen  = 32
	saltLen      = 16
)

type Gate struct {
	salt   []byte
	digest []byte
}

func NewGate(secret string) (*Gate, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return &Gate{
		salt:   salt,
		digest: argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, argonKeyLen),
	}, nil
}

// Verify reports whether candidate matches the configured secret.
func (g *Gate) Verify(candidate string) bool {
	key := argon2.IDKey([]byte(candidate), g.salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(key, g.digest) == 1
}
