// Package mfa is a multi-factor-authentication engine for telephony platform
// accounts. It verifies possession of three independent factor types, a
// TOTP/HOTP shared secret, a hardware-token OTP validated against a remote
// cloud service, and a WebAuthn/FIDO2 credential, plus single-use backup
// codes as a fallback.
//
// The Orchestrator in this package drives enrollment and verification and
// owns no cryptography itself: the TOTP algorithm lives in pkg/totp, the
// cloud-OTP client in pkg/yubiotp, assertion verification in pkg/webauthn,
// recovery codes in pkg/backupcode, AEAD and key derivation in pkg/secrets,
// and persistence behind the pkg/datastore interface. All collaborators are
// constructor-injected.
//
// Enrollment is a two-step state machine. EnrollTOTP stores a fresh secret
// encrypted and disabled; VerifyEnrollment must confirm one valid code
// against that secret before the factor activates. Hardware devices and
// WebAuthn credentials enroll only after a live proof of possession.
//
// TOTP secrets are encrypted at rest under a key derived from a server-side
// master key (MFA_MASTER_KEY), the owner id, and a per-record random salt.
// The orchestrator never persists or logs a plaintext secret.
package mfa
