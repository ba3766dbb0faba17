// Package webauthn validates WebAuthn/FIDO2 registration payloads and
// authentication assertions against stored COSE public keys.
//
// Registration is structural only: the decoded credential id must be 16 to
// 1024 bytes and the public key must parse as a COSE key; no cryptographic
// proof is possible at that point. Assertion verification parses the client
// data JSON, binds the ceremony challenge, checks the relying-party id hash
// and the User Present flag in the authenticator data, and verifies the
// signature over authenticatorData || SHA-256(clientDataJSON) through the
// go-webauthn COSE implementation.
//
// An origin mismatch is logged and, by default, tolerated; WithStrictOrigin
// makes it a hard failure. WithoutSignatureVerification switches to a
// reduced-assurance mode that accepts structurally plausible assertions
// without a signature check; every such acceptance is logged at ERROR with
// reduced_assurance=true so the degraded state stays visible in operation.
package webauthn
