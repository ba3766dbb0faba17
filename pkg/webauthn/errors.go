package webauthn

import "errors"

var (
	ErrMissingRPID             = errors.New("missing relying party id")
	ErrFailedToCreateChallenge = errors.New("failed to create challenge")
	ErrInvalidCredentialID     = errors.New("invalid credential id")
	ErrInvalidPublicKey        = errors.New("invalid public key")
	ErrMissingAssertionField   = errors.New("missing assertion field")
	ErrInvalidAssertion        = errors.New("invalid assertion payload")
)
