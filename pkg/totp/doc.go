// Package totp implements the HOTP and TOTP one-time-password algorithms
// (RFC 4226 / RFC 6238) used as the primary software factor of the MFA engine.
//
// The package is deliberately self-contained: secret generation, HOTP/TOTP
// code calculation with explicit timestamps and skew windows, and otpauth://
// provisioning URI construction for authenticator-app onboarding. Keeping the
// algorithm in-repo avoids a third-party OTP dependency and keeps the code
// comparison constant-time.
//
// Verification never returns an error for a legitimate mismatch; VerifyAt
// simply reports false. Malformed digit counts, periods, or windows are
// programming errors and panic.
//
// # Usage
//
//	secret, _ := totp.GenerateSecret()
//
//	uri, _ := totp.ProvisioningURI(totp.URIParams{
//	    Secret:      secret,
//	    AccountName: "1001",
//	    Issuer:      "PBX",
//	})
//
//	code := totp.Generate(secret, time.Now())
//	ok := totp.Verify(secret, code, time.Now())
//
// # See Also
//
//   - RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   - RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
package totp
