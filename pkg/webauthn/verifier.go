package webauthn

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-webauthn/webauthn/protocol/webauthncose"
)

const (
	// Credential ids shorter than 16 bytes cannot be globally unique;
	// 1024 bytes is the ceiling authenticators may produce.
	minCredentialIDLength = 16
	maxCredentialIDLength = 1024

	// authenticatorData layout: 32-byte rpIdHash, 1 flags byte, 4-byte counter.
	minAuthDataLength = 37

	flagUserPresent = 0x01

	minSignatureLength = 64
)

// Verifier validates WebAuthn registration payloads and authentication
// assertions against a configured relying party. Stateless aside from
// configuration; safe for concurrent use.
type Verifier struct {
	rpID             string
	origin           string
	strictOrigin     bool
	verifySignatures bool
	log              *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the structured logger. Discards by default.
func WithLogger(log *slog.Logger) Option {
	return func(v *Verifier) {
		if log != nil {
			v.log = log
		}
	}
}

// WithStrictOrigin turns a client-data origin mismatch into a hard
// verification failure instead of a logged warning.
func WithStrictOrigin() Option {
	return func(v *Verifier) {
		v.strictOrigin = true
	}
}

// WithoutSignatureVerification switches the verifier into reduced-assurance
// mode: assertions pass on structural checks alone, without a cryptographic
// signature check. Every verification in this mode is logged at ERROR so the
// degraded state is impossible to miss in operation.
func WithoutSignatureVerification() Option {
	return func(v *Verifier) {
		v.verifySignatures = false
	}
}

// New creates a Verifier for the given relying party.
func New(cfg Config, opts ...Option) (*Verifier, error) {
	if cfg.RPID == "" {
		return nil, ErrMissingRPID
	}

	origin := cfg.Origin
	if origin == "" {
		origin = "https://" + cfg.RPID
	}

	v := &Verifier{
		rpID:             cfg.RPID,
		origin:           origin,
		verifySignatures: true,
		log:              slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}

	if !v.verifySignatures {
		v.log.Error("webauthn verifier running without signature verification",
			"reduced_assurance", true, "rp_id", v.rpID)
	}

	return v, nil
}

// Credential is a validated registration payload ready for persistence.
type Credential struct {
	ID        string // canonical URL-safe base64 credential id
	PublicKey []byte // raw COSE-encoded public key
}

// RegisterCredential validates a registration payload structurally: the
// decoded credential id must be 16..1024 bytes and, when full verification is
// enabled, the public key must parse as a COSE key. No cryptographic proof is
// possible at registration time.
func (v *Verifier) RegisterCredential(credentialID, publicKey string) (Credential, error) {
	rawID, err := decodeBase64(credentialID)
	if err != nil {
		return Credential{}, errors.Join(ErrInvalidCredentialID, err)
	}
	if len(rawID) < minCredentialIDLength || len(rawID) > maxCredentialIDLength {
		return Credential{}, fmt.Errorf("%w: decoded length %d outside [%d, %d]",
			ErrInvalidCredentialID, len(rawID), minCredentialIDLength, maxCredentialIDLength)
	}

	rawKey, err := decodeBase64(publicKey)
	if err != nil {
		return Credential{}, errors.Join(ErrInvalidPublicKey, err)
	}

	if v.verifySignatures {
		if _, err := webauthncose.ParsePublicKey(rawKey); err != nil {
			return Credential{}, errors.Join(ErrInvalidPublicKey, err)
		}
	}

	return Credential{
		ID:        base64.RawURLEncoding.EncodeToString(rawID),
		PublicKey: rawKey,
	}, nil
}

// CanonicalCredentialID normalizes a credential id to URL-safe base64 without
// padding, the form credentials are stored under.
func CanonicalCredentialID(credentialID string) (string, error) {
	raw, err := decodeBase64(credentialID)
	if err != nil {
		return "", errors.Join(ErrInvalidCredentialID, err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Assertion carries the authenticator's response to an authentication
// ceremony. Binary fields are base64; ClientDataJSON may also be raw JSON.
type Assertion struct {
	CredentialID      string
	AuthenticatorData string
	Signature         string
	ClientDataJSON    string
}

// clientData is the subset of the client data JSON the verifier inspects.
type clientData struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Origin    string `json:"origin"`
}

// VerifyAssertion checks an authentication assertion against the stored COSE
// public key. A non-empty expectedChallenge must match the client data's
// challenge exactly. Malformed payloads return an error; a legitimate
// verification failure returns false with no error detail, so callers cannot
// be used as a crypto oracle.
func (v *Verifier) VerifyAssertion(ctx context.Context, a Assertion, publicKey []byte, expectedChallenge string) (bool, error) {
	if a.AuthenticatorData == "" || a.Signature == "" || a.ClientDataJSON == "" || len(publicKey) == 0 {
		return false, ErrMissingAssertionField
	}

	authData, err := decodeBase64(a.AuthenticatorData)
	if err != nil {
		return false, errors.Join(ErrInvalidAssertion, err)
	}
	signature, err := decodeBase64(a.Signature)
	if err != nil {
		return false, errors.Join(ErrInvalidAssertion, err)
	}

	rawClientData := []byte(a.ClientDataJSON)
	if !strings.HasPrefix(strings.TrimSpace(a.ClientDataJSON), "{") {
		rawClientData, err = decodeBase64(a.ClientDataJSON)
		if err != nil {
			return false, errors.Join(ErrInvalidAssertion, err)
		}
	}

	var cd clientData
	if err := json.Unmarshal(rawClientData, &cd); err != nil {
		return false, errors.Join(ErrInvalidAssertion, err)
	}

	if expectedChallenge != "" && cd.Challenge != expectedChallenge {
		v.log.WarnContext(ctx, "webauthn challenge mismatch", "rp_id", v.rpID)
		return false, nil
	}

	if !v.originMatches(cd.Origin) {
		v.log.WarnContext(ctx, "webauthn origin mismatch",
			"rp_id", v.rpID, "origin", cd.Origin, "expected", v.origin)
		if v.strictOrigin {
			return false, nil
		}
	}

	if len(authData) < minAuthDataLength {
		return false, errors.Join(ErrInvalidAssertion,
			fmt.Errorf("authenticator data too short: %d bytes", len(authData)))
	}

	rpIDHash := sha256.Sum256([]byte(v.rpID))
	if !bytes.Equal(authData[:32], rpIDHash[:]) {
		v.log.WarnContext(ctx, "webauthn rp id hash mismatch", "rp_id", v.rpID)
		return false, nil
	}

	if authData[32]&flagUserPresent == 0 {
		v.log.WarnContext(ctx, "webauthn assertion without user presence", "rp_id", v.rpID)
		return false, nil
	}

	clientDataHash := sha256.Sum256(rawClientData)
	signedData := append(append([]byte{}, authData...), clientDataHash[:]...)

	if !v.verifySignatures {
		v.log.ErrorContext(ctx, "accepting webauthn assertion without signature verification",
			"reduced_assurance", true, "rp_id", v.rpID)
		return len(signature) >= minSignatureLength, nil
	}

	key, err := webauthncose.ParsePublicKey(publicKey)
	if err != nil {
		return false, errors.Join(ErrInvalidPublicKey, err)
	}

	ok, err := webauthncose.VerifySignature(key, signedData, signature)
	if err != nil {
		v.log.WarnContext(ctx, "webauthn signature verification failed", "rp_id", v.rpID, "error", err)
		return false, nil
	}

	return ok, nil
}

func (v *Verifier) originMatches(origin string) bool {
	return origin == v.origin || strings.TrimSuffix(origin, "/") == strings.TrimSuffix(v.origin, "/")
}

// decodeBase64 accepts the standard and URL-safe alphabets with or without
// padding, since authenticator client libraries disagree on the encoding.
func decodeBase64(s string) ([]byte, error) {
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("invalid base64 value")
}
