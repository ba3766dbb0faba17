// Package secrets implements the cryptographic primitives the MFA engine
// delegates to: authenticated encryption of factor secrets, key derivation,
// and password/backup-code hashing.
//
// Encryption uses AES-256 in GCM mode and returns ciphertext, nonce, and
// authentication tag as separate base64 strings, leaving the at-rest blob
// encoding to the caller. Key derivation uses HKDF-SHA-256 with a random
// per-record salt; hashing uses argon2id with interactive-grade parameters.
// All comparisons over secret material are constant-time.
//
// # Usage
//
//	provider := secrets.New()
//
//	key, salt, _ := provider.DeriveKey(masterKey, nil, secrets.KeySize)
//	ct, nonce, tag, _ := provider.Encrypt(secret, key)
//
//	// Later, with the persisted salt:
//	key, _, _ = provider.DeriveKey(masterKey, salt, secrets.KeySize)
//	plain, err := provider.Decrypt(ct, nonce, tag, key)
//
// # Error Handling
//
// All public functions wrap a sentinel package error such as
// ErrDecryptionFailed or ErrInvalidCiphertext; match with errors.Is.
// Decryption failures carry no step-level detail.
package secrets
