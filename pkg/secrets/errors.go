package secrets

import "errors"

var (
	// Encryption/decryption errors
	ErrInvalidKeyLength  = errors.New("invalid key length: must be 32 bytes")
	ErrEncryptionFailed  = errors.New("encryption failed")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")

	// Key derivation errors
	ErrKeyDerivationFailed = errors.New("key derivation failed")
	ErrEmptyPassphrase     = errors.New("empty passphrase")

	// Password hashing errors
	ErrHashingFailed = errors.New("password hashing failed")
)
