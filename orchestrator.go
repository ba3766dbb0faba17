package mfa

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/pbxkit/mfa/pkg/backupcode"
	"github.com/pbxkit/mfa/pkg/challenge"
	"github.com/pbxkit/mfa/pkg/datastore"
	"github.com/pbxkit/mfa/pkg/totp"
	"github.com/pbxkit/mfa/pkg/webauthn"
	"github.com/pbxkit/mfa/pkg/yubiotp"
)

const (
	upsertSecretQuery = `INSERT INTO factor_secrets (owner_id, secret_encrypted, secret_salt, enabled) VALUES (?, ?, ?, FALSE)
ON CONFLICT (owner_id) DO UPDATE SET secret_encrypted = EXCLUDED.secret_encrypted, secret_salt = EXCLUDED.secret_salt, enabled = FALSE, enrolled_at = NULL, last_used = NULL`
	selectSecretQuery = `SELECT secret_encrypted, secret_salt, enabled FROM factor_secrets WHERE owner_id = ?`
	enableSecretQuery = `UPDATE factor_secrets SET enabled = TRUE, enrolled_at = ? WHERE owner_id = ? AND enabled = FALSE`
	stampSecretQuery  = `UPDATE factor_secrets SET last_used = ? WHERE owner_id = ?`
	deleteSecretQuery = `DELETE FROM factor_secrets WHERE owner_id = ?`
	deleteCodesQuery  = `DELETE FROM backup_codes WHERE owner_id = ?`

	insertDeviceQuery = `INSERT INTO hardware_otp_devices (owner_id, public_id, device_name, enrolled_at) VALUES (?, ?, ?, ?)`
	ownerDeviceQuery  = `SELECT COUNT(*) FROM hardware_otp_devices WHERE owner_id = ? AND public_id = ?`
	stampDeviceQuery  = `UPDATE hardware_otp_devices SET last_used = ? WHERE owner_id = ? AND public_id = ?`
	listDevicesQuery  = `SELECT public_id, device_name, enrolled_at, last_used FROM hardware_otp_devices WHERE owner_id = ? ORDER BY enrolled_at`
	deleteDeviceQuery = `DELETE FROM hardware_otp_devices WHERE owner_id = ? AND public_id = ?`
	countDevicesQuery = `SELECT COUNT(*) FROM hardware_otp_devices WHERE owner_id = ?`

	insertCredentialQuery = `INSERT INTO webauthn_credentials (owner_id, credential_id, public_key, device_name, enrolled_at) VALUES (?, ?, ?, ?, ?)`
	selectCredentialQuery = `SELECT public_key FROM webauthn_credentials WHERE owner_id = ? AND credential_id = ?`
	listCredentialsQuery  = `SELECT credential_id, device_name, enrolled_at FROM webauthn_credentials WHERE owner_id = ? ORDER BY enrolled_at`
	deleteCredentialQuery = `DELETE FROM webauthn_credentials WHERE owner_id = ? AND credential_id = ?`
	countCredentialsQuery = `SELECT COUNT(*) FROM webauthn_credentials WHERE owner_id = ?`
)

// CryptoProvider supplies the confidentiality primitives the orchestrator
// delegates to. Implementations must be safe for concurrent use.
type CryptoProvider interface {
	Encrypt(plaintext, key []byte) (ciphertext, nonce, tag string, err error)
	Decrypt(ciphertext, nonce, tag string, key []byte) ([]byte, error)
	DeriveKey(passphrase, salt []byte, length int) (key, usedSalt []byte, err error)
}

// BackupVault manages single-use recovery codes for an owner.
type BackupVault interface {
	Replace(ctx context.Context, owner string, count int) ([]string, error)
	Verify(ctx context.Context, owner, submitted string) (bool, error)
	CountUnused(ctx context.Context, owner string) (int, error)
}

// HardwareOTPVerifier validates a hardware-token OTP against the remote
// validation service. A nil error means the OTP is genuine and fresh.
type HardwareOTPVerifier interface {
	Verify(ctx context.Context, otp string) error
}

// AssertionVerifier validates WebAuthn registration payloads and
// authentication assertions.
type AssertionVerifier interface {
	RegisterCredential(credentialID, publicKey string) (webauthn.Credential, error)
	VerifyAssertion(ctx context.Context, a webauthn.Assertion, publicKey []byte, expectedChallenge string) (bool, error)
}

// Orchestrator drives factor enrollment and verification. It owns no
// cryptography itself; secrets, verifiers, and persistence are injected.
// Stateless aside from configuration; safe for concurrent use as long as the
// injected collaborators are.
type Orchestrator struct {
	cfg        Config
	masterKey  []byte
	db         datastore.Datastore
	crypto     CryptoProvider
	backup     BackupVault
	hardware   HardwareOTPVerifier
	webauthn   AssertionVerifier
	challenges challenge.Store
	log        *slog.Logger
	now        func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger. Discards by default.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithHardwareOTP enables the hardware-token factor backed by the given
// cloud verifier.
func WithHardwareOTP(verifier HardwareOTPVerifier) Option {
	return func(o *Orchestrator) {
		o.hardware = verifier
	}
}

// WithWebAuthn enables the WebAuthn factor backed by the given verifier.
func WithWebAuthn(verifier AssertionVerifier) Option {
	return func(o *Orchestrator) {
		o.webauthn = verifier
	}
}

// WithChallenges sets the single-use challenge store binding WebAuthn
// ceremonies. Without it, assertions are verified without challenge binding.
func WithChallenges(store challenge.Store) Option {
	return func(o *Orchestrator) {
		o.challenges = store
	}
}

// New creates an Orchestrator. The master key must be base64 and decode to at
// least 16 bytes; it never leaves the process.
func New(cfg Config, db datastore.Datastore, crypto CryptoProvider, backup BackupVault, opts ...Option) (*Orchestrator, error) {
	if cfg.MasterKey == "" {
		return nil, ErrMissingMasterKey
	}
	masterKey, err := base64.StdEncoding.DecodeString(cfg.MasterKey)
	if err != nil || len(masterKey) < 16 {
		return nil, errors.Join(ErrInvalidMasterKey, err)
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "PBX"
	}
	if cfg.BackupCodeCount <= 0 {
		cfg.BackupCodeCount = backupcode.DefaultBatchSize
	}
	if cfg.TOTPPeriod <= 0 {
		cfg.TOTPPeriod = totp.DefaultPeriod
	}
	if cfg.TOTPDigits <= 0 {
		cfg.TOTPDigits = totp.DefaultDigits
	}
	if cfg.TOTPSkewWindow < 0 {
		cfg.TOTPSkewWindow = totp.DefaultWindow
	}

	o := &Orchestrator{
		cfg:       cfg,
		masterKey: masterKey,
		db:        db,
		crypto:    crypto,
		backup:    backup,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Enrollment is the outcome of a TOTP enrollment: everything the caller needs
// to hand to the user, nothing of it persisted in the clear.
type Enrollment struct {
	Secret          string   // base32-encoded shared secret, no padding
	ProvisioningURI string   // otpauth:// URI for authenticator apps
	BackupCodes     []string // fresh single-use recovery codes
}

// EnrollTOTP generates a fresh shared secret for the owner, stores it
// encrypted and disabled, and replaces the owner's backup-code batch.
// Re-enrollment overwrites any prior secret, pending or enrolled. The factor
// stays disabled until VerifyEnrollment confirms possession.
func (o *Orchestrator) EnrollTOTP(ctx context.Context, ownerID string) (Enrollment, error) {
	secret, err := totp.GenerateSecret()
	if err != nil {
		return Enrollment{}, errors.Join(ErrFailedToEnroll, err)
	}

	key, salt, err := o.secretKey(ownerID, nil)
	if err != nil {
		return Enrollment{}, errors.Join(ErrFailedToEnroll, err)
	}
	ciphertext, nonce, tag, err := o.crypto.Encrypt(secret, key)
	if err != nil {
		return Enrollment{}, errors.Join(ErrFailedToEnroll, err)
	}

	blob := encodeSecretBlob(nonce, tag, ciphertext)
	if _, err := o.db.Exec(ctx, upsertSecretQuery, ownerID, blob, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return Enrollment{}, errors.Join(ErrFailedToEnroll, ErrPersistenceFailed, err)
	}

	codes, err := o.backup.Replace(ctx, ownerID, o.cfg.BackupCodeCount)
	if err != nil {
		return Enrollment{}, errors.Join(ErrFailedToEnroll, err)
	}

	uri, err := totp.ProvisioningURI(totp.URIParams{
		Secret:      secret,
		AccountName: ownerID,
		Issuer:      o.cfg.Issuer,
		Digits:      o.cfg.TOTPDigits,
		Period:      o.cfg.TOTPPeriod,
	})
	if err != nil {
		return Enrollment{}, errors.Join(ErrFailedToEnroll, err)
	}

	o.log.InfoContext(ctx, "totp enrollment pending confirmation", "owner_id", ownerID)

	return Enrollment{
		Secret:          totp.EncodeSecret(secret),
		ProvisioningURI: uri,
		BackupCodes:     codes,
	}, nil
}

// VerifyEnrollment confirms a pending TOTP enrollment by checking one code
// against the still-disabled secret. On success the factor is enabled and
// enrolled_at is stamped.
func (o *Orchestrator) VerifyEnrollment(ctx context.Context, ownerID, code string) (bool, error) {
	stored, err := o.loadSecret(ctx, ownerID)
	if datastore.IsNotFound(err) {
		return false, ErrNotEnrolled
	}
	if err != nil {
		return false, errors.Join(ErrPersistenceFailed, err)
	}

	secret, err := o.decryptSecret(ownerID, stored)
	if err != nil {
		o.log.ErrorContext(ctx, "failed to decrypt factor secret", "owner_id", ownerID, "error", err)
		return false, nil
	}
	if !totp.VerifyAt(secret, code, o.now(), o.cfg.TOTPPeriod, o.cfg.TOTPDigits, o.cfg.TOTPSkewWindow) {
		return false, nil
	}

	// Conditional write; zero rows affected means a concurrent confirmation
	// won, which is still a confirmed enrollment.
	if _, err := o.db.Exec(ctx, enableSecretQuery, o.now(), ownerID); err != nil {
		return false, errors.Join(ErrPersistenceFailed, err)
	}

	o.log.InfoContext(ctx, "totp enrollment confirmed", "owner_id", ownerID)
	return true, nil
}

// VerifyCode checks a submitted code against the owner's enrolled factors.
// The candidate factor is picked from the code's shape: TOTP first, then a
// 44-character hardware OTP when that factor is enabled, then backup codes.
//
// When MFA is globally disabled the check passes unconditionally. An owner
// without any enabled factor passes unless MFA is globally required.
func (o *Orchestrator) VerifyCode(ctx context.Context, ownerID, submitted string) (bool, error) {
	if !o.cfg.Enabled {
		return true, nil
	}

	enrolled, err := o.IsEnabledForUser(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if !enrolled {
		return !o.cfg.Required, nil
	}

	if ok, err := o.verifyTOTP(ctx, ownerID, submitted); err != nil {
		return false, err
	} else if ok {
		return true, nil
	}

	if o.cfg.HardwareOTPEnabled && o.hardware != nil && len(submitted) == yubiotp.OTPLength {
		if ok, err := o.verifyHardwareOTP(ctx, ownerID, submitted); err != nil {
			return false, err
		} else if ok {
			return true, nil
		}
	}

	return o.backup.Verify(ctx, ownerID, submitted)
}

func (o *Orchestrator) verifyTOTP(ctx context.Context, ownerID, submitted string) (bool, error) {
	stored, err := o.loadSecret(ctx, ownerID)
	if datastore.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Join(ErrPersistenceFailed, err)
	}
	if !stored.enabled {
		return false, nil
	}

	secret, err := o.decryptSecret(ownerID, stored)
	if err != nil {
		o.log.ErrorContext(ctx, "failed to decrypt factor secret", "owner_id", ownerID, "error", err)
		return false, nil
	}
	if !totp.VerifyAt(secret, submitted, o.now(), o.cfg.TOTPPeriod, o.cfg.TOTPDigits, o.cfg.TOTPSkewWindow) {
		return false, nil
	}

	if _, err := o.db.Exec(ctx, stampSecretQuery, o.now(), ownerID); err != nil {
		return false, errors.Join(ErrPersistenceFailed, err)
	}
	return true, nil
}

func (o *Orchestrator) verifyHardwareOTP(ctx context.Context, ownerID, otp string) (bool, error) {
	publicID, err := yubiotp.PublicID(otp)
	if err != nil {
		return false, nil
	}

	// The device must belong to this owner before any network call is made.
	var count int
	if err := o.db.QueryRow(ctx, ownerDeviceQuery, ownerID, publicID).Scan(&count); err != nil {
		return false, errors.Join(ErrPersistenceFailed, err)
	}
	if count == 0 {
		return false, nil
	}

	if err := o.hardware.Verify(ctx, otp); err != nil {
		o.log.WarnContext(ctx, "hardware OTP verification failed",
			"owner_id", ownerID, "public_id", publicID, "error", err)
		return false, nil
	}

	if _, err := o.db.Exec(ctx, stampDeviceQuery, o.now(), ownerID, publicID); err != nil {
		return false, errors.Join(ErrPersistenceFailed, err)
	}
	return true, nil
}

// EnrollHardwareOTP associates a hardware-token device with the owner after a
// live, successful OTP validation proves possession. The device public id is
// globally unique: a device enrolled to any owner cannot be enrolled again.
func (o *Orchestrator) EnrollHardwareOTP(ctx context.Context, ownerID, otp, deviceName string) error {
	if o.hardware == nil {
		return ErrHardwareOTPNotConfigured
	}
	if !yubiotp.IsValidOTP(otp) {
		return errors.Join(ErrFailedToEnroll, yubiotp.ErrInvalidOTPFormat)
	}
	if err := o.hardware.Verify(ctx, otp); err != nil {
		return errors.Join(ErrFailedToEnroll, err)
	}

	publicID, err := yubiotp.PublicID(otp)
	if err != nil {
		return errors.Join(ErrFailedToEnroll, err)
	}
	if _, err := o.db.Exec(ctx, insertDeviceQuery, ownerID, publicID, deviceName, o.now()); err != nil {
		if datastore.IsDuplicateKey(err) {
			return errors.Join(ErrDeviceAlreadyEnrolled, err)
		}
		return errors.Join(ErrPersistenceFailed, err)
	}

	o.log.InfoContext(ctx, "hardware OTP device enrolled", "owner_id", ownerID, "public_id", publicID)
	return nil
}

// EnrollWebAuthn persists a validated WebAuthn credential for the owner.
// Credential ids are globally unique across owners.
func (o *Orchestrator) EnrollWebAuthn(ctx context.Context, ownerID, credentialID, publicKey, deviceName string) error {
	if o.webauthn == nil {
		return ErrWebAuthnNotConfigured
	}

	cred, err := o.webauthn.RegisterCredential(credentialID, publicKey)
	if err != nil {
		return errors.Join(ErrFailedToEnroll, err)
	}

	encodedKey := base64.StdEncoding.EncodeToString(cred.PublicKey)
	if _, err := o.db.Exec(ctx, insertCredentialQuery, ownerID, cred.ID, encodedKey, deviceName, o.now()); err != nil {
		if datastore.IsDuplicateKey(err) {
			return errors.Join(ErrCredentialAlreadyEnrolled, err)
		}
		return errors.Join(ErrPersistenceFailed, err)
	}

	o.log.InfoContext(ctx, "webauthn credential enrolled", "owner_id", ownerID, "credential_id", cred.ID)
	return nil
}

// CreateWebAuthnChallenge issues a single-use ceremony challenge for the
// owner, replacing any outstanding one.
func (o *Orchestrator) CreateWebAuthnChallenge(ctx context.Context, ownerID string) (string, error) {
	if o.challenges == nil {
		return "", ErrChallengesNotConfigured
	}
	return o.challenges.Issue(ctx, ownerID)
}

// VerifyWebAuthnAssertion checks an authentication assertion against the
// owner's stored credential. With a challenge store configured, the owner's
// outstanding challenge is consumed and must match the one embedded in the
// assertion's client data.
func (o *Orchestrator) VerifyWebAuthnAssertion(ctx context.Context, ownerID string, a webauthn.Assertion) (bool, error) {
	if o.webauthn == nil {
		return false, ErrWebAuthnNotConfigured
	}

	credentialID, err := webauthn.CanonicalCredentialID(a.CredentialID)
	if err != nil {
		return false, err
	}

	var encodedKey string
	err = o.db.QueryRow(ctx, selectCredentialQuery, ownerID, credentialID).Scan(&encodedKey)
	if datastore.IsNotFound(err) {
		o.log.WarnContext(ctx, "assertion for unknown credential",
			"owner_id", ownerID, "credential_id", credentialID)
		return false, nil
	}
	if err != nil {
		return false, errors.Join(ErrPersistenceFailed, err)
	}
	publicKey, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return false, errors.Join(ErrPersistenceFailed, err)
	}

	expected := ""
	if o.challenges != nil {
		expected, err = o.challenges.Consume(ctx, ownerID)
		if errors.Is(err, challenge.ErrNoChallenge) {
			o.log.WarnContext(ctx, "assertion without outstanding challenge", "owner_id", ownerID)
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}

	a.CredentialID = credentialID
	return o.webauthn.VerifyAssertion(ctx, a, publicKey, expected)
}

// HardwareDevice describes one enrolled hardware-token device.
type HardwareDevice struct {
	PublicID   string
	DeviceName string
	EnrolledAt time.Time
	LastUsed   *time.Time
}

// Credential describes one enrolled WebAuthn credential.
type Credential struct {
	CredentialID string
	DeviceName   string
	EnrolledAt   time.Time
}

// Factors aggregates everything enrolled for one owner.
type Factors struct {
	TOTPEnabled       bool
	HardwareDevices   []HardwareDevice
	Credentials       []Credential
	UnusedBackupCodes int
}

// ListEnrolledFactors aggregates the owner's TOTP state, hardware devices,
// WebAuthn credentials, and unused backup-code count.
func (o *Orchestrator) ListEnrolledFactors(ctx context.Context, ownerID string) (Factors, error) {
	var f Factors

	stored, err := o.loadSecret(ctx, ownerID)
	switch {
	case datastore.IsNotFound(err):
	case err != nil:
		return Factors{}, errors.Join(ErrPersistenceFailed, err)
	default:
		f.TOTPEnabled = stored.enabled
	}

	if err := o.collectDevices(ctx, ownerID, &f); err != nil {
		return Factors{}, err
	}
	if err := o.collectCredentials(ctx, ownerID, &f); err != nil {
		return Factors{}, err
	}

	count, err := o.backup.CountUnused(ctx, ownerID)
	if err != nil {
		return Factors{}, err
	}
	f.UnusedBackupCodes = count

	return f, nil
}

func (o *Orchestrator) collectDevices(ctx context.Context, ownerID string, f *Factors) error {
	rows, err := o.db.Query(ctx, listDevicesQuery, ownerID)
	if err != nil {
		return errors.Join(ErrPersistenceFailed, err)
	}
	defer rows.Close()

	for rows.Next() {
		var d HardwareDevice
		if err := rows.Scan(&d.PublicID, &d.DeviceName, &d.EnrolledAt, &d.LastUsed); err != nil {
			return errors.Join(ErrPersistenceFailed, err)
		}
		f.HardwareDevices = append(f.HardwareDevices, d)
	}
	if err := rows.Err(); err != nil {
		return errors.Join(ErrPersistenceFailed, err)
	}
	return nil
}

func (o *Orchestrator) collectCredentials(ctx context.Context, ownerID string, f *Factors) error {
	rows, err := o.db.Query(ctx, listCredentialsQuery, ownerID)
	if err != nil {
		return errors.Join(ErrPersistenceFailed, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Credential
		if err := rows.Scan(&c.CredentialID, &c.DeviceName, &c.EnrolledAt); err != nil {
			return errors.Join(ErrPersistenceFailed, err)
		}
		f.Credentials = append(f.Credentials, c)
	}
	if err := rows.Err(); err != nil {
		return errors.Join(ErrPersistenceFailed, err)
	}
	return nil
}

// IsEnabledForUser reports whether the owner has at least one enabled factor:
// a confirmed TOTP secret, a hardware device, or a WebAuthn credential.
func (o *Orchestrator) IsEnabledForUser(ctx context.Context, ownerID string) (bool, error) {
	stored, err := o.loadSecret(ctx, ownerID)
	switch {
	case datastore.IsNotFound(err):
	case err != nil:
		return false, errors.Join(ErrPersistenceFailed, err)
	case stored.enabled:
		return true, nil
	}

	var devices int
	if err := o.db.QueryRow(ctx, countDevicesQuery, ownerID).Scan(&devices); err != nil {
		return false, errors.Join(ErrPersistenceFailed, err)
	}
	if devices > 0 {
		return true, nil
	}

	var credentials int
	if err := o.db.QueryRow(ctx, countCredentialsQuery, ownerID).Scan(&credentials); err != nil {
		return false, errors.Join(ErrPersistenceFailed, err)
	}
	return credentials > 0, nil
}

// DisableTOTP removes the owner's TOTP secret and backup codes.
func (o *Orchestrator) DisableTOTP(ctx context.Context, ownerID string) error {
	affected, err := o.db.Exec(ctx, deleteSecretQuery, ownerID)
	if err != nil {
		return errors.Join(ErrPersistenceFailed, err)
	}
	if affected == 0 {
		return ErrNotEnrolled
	}
	if _, err := o.db.Exec(ctx, deleteCodesQuery, ownerID); err != nil {
		return errors.Join(ErrPersistenceFailed, err)
	}

	o.log.InfoContext(ctx, "totp factor disabled", "owner_id", ownerID)
	return nil
}

// RevokeHardwareDevice removes one of the owner's hardware devices.
func (o *Orchestrator) RevokeHardwareDevice(ctx context.Context, ownerID, publicID string) error {
	affected, err := o.db.Exec(ctx, deleteDeviceQuery, ownerID, publicID)
	if err != nil {
		return errors.Join(ErrPersistenceFailed, err)
	}
	if affected == 0 {
		return ErrNotEnrolled
	}

	o.log.InfoContext(ctx, "hardware OTP device revoked", "owner_id", ownerID, "public_id", publicID)
	return nil
}

// RevokeWebAuthnCredential removes one of the owner's WebAuthn credentials.
func (o *Orchestrator) RevokeWebAuthnCredential(ctx context.Context, ownerID, credentialID string) error {
	canonical, err := webauthn.CanonicalCredentialID(credentialID)
	if err != nil {
		return err
	}

	affected, err := o.db.Exec(ctx, deleteCredentialQuery, ownerID, canonical)
	if err != nil {
		return errors.Join(ErrPersistenceFailed, err)
	}
	if affected == 0 {
		return ErrNotEnrolled
	}

	o.log.InfoContext(ctx, "webauthn credential revoked", "owner_id", ownerID, "credential_id", canonical)
	return nil
}

type storedSecret struct {
	blob    string
	salt    string
	enabled bool
}

func (o *Orchestrator) loadSecret(ctx context.Context, ownerID string) (storedSecret, error) {
	var s storedSecret
	err := o.db.QueryRow(ctx, selectSecretQuery, ownerID).Scan(&s.blob, &s.salt, &s.enabled)
	return s, err
}

// secretKey derives the per-owner encryption key from the server master key,
// the owner id, and a per-record random salt. A nil salt generates a fresh one.
func (o *Orchestrator) secretKey(ownerID string, salt []byte) (key, usedSalt []byte, err error) {
	ikm := make([]byte, 0, len(o.masterKey)+len(ownerID))
	ikm = append(ikm, o.masterKey...)
	ikm = append(ikm, ownerID...)
	return o.crypto.DeriveKey(ikm, salt, 32)
}

func (o *Orchestrator) decryptSecret(ownerID string, s storedSecret) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(s.salt)
	if err != nil {
		return nil, errors.Join(ErrInvalidSecretBlob, err)
	}
	ciphertext, nonce, tag, err := decodeSecretBlob(s.blob)
	if err != nil {
		return nil, err
	}
	key, _, err := o.secretKey(ownerID, salt)
	if err != nil {
		return nil, err
	}
	return o.crypto.Decrypt(ciphertext, nonce, tag, key)
}
