// Package backupcode issues and verifies single-use recovery codes, the
// fallback factor when a user's primary authenticator is unavailable.
//
// Codes take the form XXXX-XXXX over a 32-symbol alphabet that excludes the
// easily confused characters 0, O, I, and 1. Only salted hashes are stored;
// verification scans the owner's unused codes with constant-time comparison
// and consumes the matching row with one conditional update guarded by
// used = FALSE, so two concurrent verifications can never both spend the
// same code.
package backupcode
