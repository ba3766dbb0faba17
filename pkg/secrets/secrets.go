package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

const (
	// KeySize is the required key length for AES-256.
	KeySize = 32

	gcmTagSize = 16
)

// Provider implements the authenticated-encryption and password-hashing
// primitives the MFA engine delegates to. It is stateless aside from hashing
// parameters and safe for concurrent use.
type Provider struct {
	argon argonParams
}

// New returns a Provider with interactive-grade argon2id parameters.
func New() *Provider {
	return &Provider{argon: defaultArgonParams}
}

// Encrypt seals plaintext with AES-256-GCM under a 32-byte key and returns the
// ciphertext, nonce, and authentication tag as separate base64 strings so the
// caller controls the at-rest encoding.
func (p *Provider) Encrypt(plaintext, key []byte) (ciphertext, nonce, tag string, err error) {
	aead, err := newGCM(key, ErrEncryptionFailed)
	if err != nil {
		return "", "", "", err
	}

	rawNonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, rawNonce); err != nil {
		return "", "", "", errors.Join(ErrEncryptionFailed, err)
	}

	// Seal appends the 16-byte GCM tag to the ciphertext; split them apart.
	sealed := aead.Seal(nil, rawNonce, plaintext, nil)
	rawCiphertext := sealed[:len(sealed)-gcmTagSize]
	rawTag := sealed[len(sealed)-gcmTagSize:]

	return base64.StdEncoding.EncodeToString(rawCiphertext),
		base64.StdEncoding.EncodeToString(rawNonce),
		base64.StdEncoding.EncodeToString(rawTag),
		nil
}

// Decrypt opens a ciphertext produced by Encrypt. Any authentication failure
// is reported as ErrDecryptionFailed without further detail.
func (p *Provider) Decrypt(ciphertext, nonce, tag string, key []byte) ([]byte, error) {
	aead, err := newGCM(key, ErrDecryptionFailed)
	if err != nil {
		return nil, err
	}

	rawCiphertext, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}
	rawNonce, err := base64.StdEncoding.DecodeString(nonce)
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}
	rawTag, err := base64.StdEncoding.DecodeString(tag)
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}

	if len(rawNonce) != aead.NonceSize() || len(rawTag) != gcmTagSize {
		return nil, ErrInvalidCiphertext
	}

	sealed := append(rawCiphertext, rawTag...)
	plaintext, err := aead.Open(nil, rawNonce, sealed, nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

func newGCM(key []byte, sentinel error) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, errors.Join(sentinel, ErrInvalidKeyLength)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(sentinel, err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(sentinel, err)
	}

	return aead, nil
}
