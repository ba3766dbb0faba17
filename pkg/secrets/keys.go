package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// SaltSize is the length of generated key-derivation salts.
	SaltSize = 16

	// saltInfo provides HKDF domain separation from other key uses.
	saltInfo = "pbxkit-mfa-secrets-v1"
)

// DeriveKey derives a key of the requested length from a passphrase using
// HKDF-SHA-256. When salt is nil a fresh random salt is generated; the salt
// actually used is returned so it can be persisted alongside the ciphertext.
func (p *Provider) DeriveKey(passphrase, salt []byte, length int) (key, usedSalt []byte, err error) {
	if len(passphrase) == 0 {
		return nil, nil, errors.Join(ErrKeyDerivationFailed, ErrEmptyPassphrase)
	}
	if length <= 0 {
		length = KeySize
	}

	if salt == nil {
		salt = make([]byte, SaltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, errors.Join(ErrKeyDerivationFailed, err)
		}
	}

	reader := hkdf.New(sha256.New, passphrase, salt, []byte(saltInfo))
	key = make([]byte, length)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return key, salt, nil
}

// GenerateKey creates a new random 32-byte key suitable for AES-256.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
