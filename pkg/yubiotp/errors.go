package yubiotp

import "errors"

var (
	ErrMissingClientID  = errors.New("missing validation service client id")
	ErrInvalidAPIKey    = errors.New("invalid API key, must be base64")
	ErrInvalidOTPFormat = errors.New("invalid OTP format")
	ErrOTPMismatch      = errors.New("OTP mismatch in validation response")
	ErrReplayedOTP      = errors.New("OTP replay detected")
	ErrRejected         = errors.New("OTP rejected by validation service")
	ErrUnavailable      = errors.New("validation service unavailable")
)
