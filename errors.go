package mfa

import "errors"

var (
	ErrMissingMasterKey          = errors.New("missing master key")
	ErrInvalidMasterKey          = errors.New("invalid master key, must be base64")
	ErrNotEnrolled               = errors.New("no enrolled factor for owner")
	ErrDeviceAlreadyEnrolled     = errors.New("hardware device already enrolled")
	ErrCredentialAlreadyEnrolled = errors.New("webauthn credential already enrolled")
	ErrHardwareOTPNotConfigured  = errors.New("hardware OTP verification is not configured")
	ErrWebAuthnNotConfigured     = errors.New("webauthn verification is not configured")
	ErrChallengesNotConfigured   = errors.New("challenge store is not configured")
	ErrInvalidSecretBlob         = errors.New("invalid secret blob")
	ErrFailedToEnroll            = errors.New("failed to enroll factor")
	ErrPersistenceFailed         = errors.New("persistence failed")
)
