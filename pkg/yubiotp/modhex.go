package yubiotp

import "strings"

const (
	// OTPLength is the fixed length of a hardware-token OTP.
	OTPLength = 44

	// PublicIDLength is the number of leading characters identifying the device.
	PublicIDLength = 12

	// modhexAlphabet is the 16-symbol encoding used by the tokens. It avoids
	// characters whose position differs across keyboard layouts.
	modhexAlphabet = "cbdefghijklnrtuv"
)

// IsValidOTP reports whether otp is exactly 44 modhex characters.
// Invalid candidates must be rejected before any network call.
func IsValidOTP(otp string) bool {
	if len(otp) != OTPLength {
		return false
	}
	for _, r := range otp {
		if !strings.ContainsRune(modhexAlphabet, r) {
			return false
		}
	}
	return true
}

// PublicID extracts the globally unique device identifier from an OTP.
func PublicID(otp string) (string, error) {
	if !IsValidOTP(otp) {
		return "", ErrInvalidOTPFormat
	}
	return otp[:PublicIDLength], nil
}
