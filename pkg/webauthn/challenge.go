package webauthn

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// challengeSize is the entropy of a ceremony challenge in bytes.
const challengeSize = 32

// CreateChallenge generates a single-use ceremony challenge: 32
// cryptographically random bytes, URL-safe base64 without padding. The caller
// owns tracking its expiry and consumption (see the challenge package).
func CreateChallenge() (string, error) {
	raw := make([]byte, challengeSize)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Join(ErrFailedToCreateChallenge, err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
