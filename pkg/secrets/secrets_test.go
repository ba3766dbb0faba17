package secrets_test

import (
	"encoding/base64"
	"testing"

	"github.com/pbxkit/mfa/pkg/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	provider := secrets.New()
	key, err := secrets.GenerateKey()
	require.NoError(t, err)

	plaintext := []byte("GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ")

	ct, nonce, tag, err := provider.Encrypt(plaintext, key)
	require.NoError(t, err)
	assert.NotEmpty(t, ct)
	assert.NotEmpty(t, nonce)
	assert.NotEmpty(t, tag)

	got, err := provider.Decrypt(ct, nonce, tag, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestDecryptFailsClosed(t *testing.T) {
	t.Parallel()

	provider := secrets.New()
	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	otherKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	ct, nonce, tag, err := provider.Encrypt([]byte("secret"), key)
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		t.Parallel()
		_, err := provider.Decrypt(ct, nonce, tag, otherKey)
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		t.Parallel()
		raw, err := base64.StdEncoding.DecodeString(ct)
		require.NoError(t, err)
		raw[0] ^= 0x01
		_, err = provider.Decrypt(base64.StdEncoding.EncodeToString(raw), nonce, tag, key)
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("tampered tag", func(t *testing.T) {
		t.Parallel()
		raw, err := base64.StdEncoding.DecodeString(tag)
		require.NoError(t, err)
		raw[0] ^= 0x01
		_, err = provider.Decrypt(ct, nonce, base64.StdEncoding.EncodeToString(raw), key)
		assert.ErrorIs(t, err, secrets.ErrDecryptionFailed)
	})

	t.Run("not base64", func(t *testing.T) {
		t.Parallel()
		_, err := provider.Decrypt("%%%", nonce, tag, key)
		assert.ErrorIs(t, err, secrets.ErrInvalidCiphertext)
	})

	t.Run("short key", func(t *testing.T) {
		t.Parallel()
		_, err := provider.Decrypt(ct, nonce, tag, []byte("short"))
		assert.ErrorIs(t, err, secrets.ErrInvalidKeyLength)
	})
}

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	provider := secrets.New()

	key1, salt, err := provider.DeriveKey([]byte("master"), nil, secrets.KeySize)
	require.NoError(t, err)
	assert.Len(t, key1, secrets.KeySize)
	assert.Len(t, salt, secrets.SaltSize)

	// Same passphrase and salt reproduce the key.
	key2, salt2, err := provider.DeriveKey([]byte("master"), salt, secrets.KeySize)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
	assert.Equal(t, salt, salt2)

	// Different salt yields a different key.
	key3, _, err := provider.DeriveKey([]byte("master"), nil, secrets.KeySize)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key3)

	_, _, err = provider.DeriveKey(nil, nil, secrets.KeySize)
	assert.ErrorIs(t, err, secrets.ErrEmptyPassphrase)
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	provider := secrets.New()

	hash, salt, err := provider.HashPassword("QWER-TY23")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEmpty(t, salt)

	assert.True(t, provider.VerifyPassword("QWER-TY23", hash, salt))
	assert.False(t, provider.VerifyPassword("QWER-TY24", hash, salt))
	assert.False(t, provider.VerifyPassword("QWER-TY23", "not-base64!", salt))
	assert.False(t, provider.VerifyPassword("QWER-TY23", hash, "not-base64!"))

	// Same password hashes differently under a fresh salt.
	hash2, salt2, err := provider.HashPassword("QWER-TY23")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
	assert.NotEqual(t, salt, salt2)
}
