package secrets

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/argon2"
)

// argonParams holds argon2id cost parameters.
type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
}

// defaultArgonParams follows the RFC 9106 recommendation for
// memory-constrained interactive use (64 MiB, 1 pass, 4 lanes).
var defaultArgonParams = argonParams{
	time:    1,
	memory:  64 * 1024,
	threads: 4,
	keyLen:  32,
}

// HashPassword hashes a password (or backup code) with argon2id under a fresh
// random salt. Both the hash and salt are returned base64-encoded for storage.
func (p *Provider) HashPassword(password string) (hash, salt string, err error) {
	rawSalt := make([]byte, SaltSize)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", errors.Join(ErrHashingFailed, err)
	}

	rawHash := argon2.IDKey([]byte(password), rawSalt,
		p.argon.time, p.argon.memory, p.argon.threads, p.argon.keyLen)

	return base64.StdEncoding.EncodeToString(rawHash),
		base64.StdEncoding.EncodeToString(rawSalt),
		nil
}

// VerifyPassword recomputes the argon2id hash and compares it in constant
// time. Malformed stored values verify as false rather than erroring, so the
// caller cannot be turned into a decoding oracle.
func (p *Provider) VerifyPassword(password, hash, salt string) bool {
	rawHash, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false
	}
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), rawSalt,
		p.argon.time, p.argon.memory, p.argon.threads, p.argon.keyLen)

	return subtle.ConstantTimeCompare(computed, rawHash) == 1
}
