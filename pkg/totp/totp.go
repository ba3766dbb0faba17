package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultDigits = 6  // Standard 6-digit TOTP codes
	DefaultPeriod = 30 // 30-second validity window (RFC 6238 standard)
	DefaultWindow = 1  // Accepted clock-skew steps on either side of the current period

	// SecretSize is the secret length in bytes (160 bits, RFC 4226 recommendation).
	SecretSize = 20

	maxDigits = 10 // 2^31 < 10^10, more digits cannot be produced by dynamic truncation
)

// ValidateSecretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7, optional padding
var ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateSecret creates a new cryptographically random 160-bit shared secret.
// The raw bytes are returned; use EncodeSecret for the authenticator-app form.
func GenerateSecret() ([]byte, error) {
	secret := make([]byte, SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, errors.Join(ErrFailedToGenerateSecret, err)
	}
	return secret, nil
}

// EncodeSecret returns the Base32 (no padding) encoding used by authenticator apps.
func EncodeSecret(secret []byte) string {
	return b32.EncodeToString(secret)
}

// DecodeSecret decodes a Base32 secret produced by EncodeSecret.
func DecodeSecret(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(strings.ToUpper(encoded))
	if !ValidateSecretKeyRegex.MatchString(encoded) {
		return nil, ErrInvalidSecret
	}
	secret, err := b32.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return secret, nil
}

// GenerateHOTP implements the RFC 4226 HMAC-based One-Time Password algorithm.
// The counter is hashed with HMAC-SHA1 and reduced to a zero-padded numeric code
// via dynamic truncation. Digits outside 1..10 are a programming error.
func GenerateHOTP(secret []byte, counter uint64, digits int) string {
	if digits < 1 || digits > maxDigits {
		panic(fmt.Sprintf("totp: invalid digit count %d", digits))
	}

	// Convert counter to big-endian 8-byte array (RFC 4226 requirement)
	counterBytes := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		counterBytes[i] = byte(counter & 0xff)
		counter >>= 8
	}

	mac := hmac.New(sha1.New, secret)
	mac.Write(counterBytes)
	hash := mac.Sum(nil)

	// Dynamic truncation (RFC 4226): use last 4 bits as offset into hash
	offset := hash[len(hash)-1] & 0x0f
	// Extract 31-bit value (clear MSB to ensure positive number)
	code := (uint32(hash[offset]&0x7f) << 24) |
		(uint32(hash[offset+1]) << 16) |
		(uint32(hash[offset+2]) << 8) |
		uint32(hash[offset+3])

	code %= uint32(math.Pow10(digits))

	return fmt.Sprintf("%0*d", digits, code)
}

// Generate computes the TOTP code for the period containing t using default
// period and digit settings.
func Generate(secret []byte, t time.Time) string {
	return GenerateAt(secret, t, DefaultPeriod, DefaultDigits)
}

// GenerateAt computes the TOTP code for the period containing t.
// Period must be positive; both period and digits violations panic since they
// indicate caller bugs, not runtime conditions.
func GenerateAt(secret []byte, t time.Time, period, digits int) string {
	if period <= 0 {
		panic(fmt.Sprintf("totp: invalid period %d", period))
	}
	counter := uint64(t.Unix() / int64(period))
	return GenerateHOTP(secret, counter, digits)
}

// Verify reports whether code matches the TOTP value for the period containing t
// using default settings, tolerating one step of clock skew in either direction.
func Verify(secret []byte, code string, t time.Time) bool {
	return VerifyAt(secret, code, t, DefaultPeriod, DefaultDigits, DefaultWindow)
}

// VerifyAt recomputes candidate codes for the counters within the skew window
// and compares each against code in constant time. A window of 0 checks only
// the current period. Legitimate mismatches return false, never an error.
func VerifyAt(secret []byte, code string, t time.Time, period, digits, window int) bool {
	if period <= 0 {
		panic(fmt.Sprintf("totp: invalid period %d", period))
	}
	if window < 0 {
		panic(fmt.Sprintf("totp: invalid window %d", window))
	}

	code = strings.TrimSpace(code)
	if len(code) != digits {
		return false
	}

	counter := t.Unix() / int64(period)
	for i := -window; i <= window; i++ {
		candidate := counter + int64(i)
		if candidate < 0 {
			continue
		}
		expected := GenerateHOTP(secret, uint64(candidate), digits)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return true
		}
	}

	return false
}
