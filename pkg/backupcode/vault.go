package backupcode

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pbxkit/mfa/pkg/datastore"
)

const (
	replaceDeleteQuery = `DELETE FROM backup_codes WHERE owner_id = ?`
	insertCodeQuery    = `INSERT INTO backup_codes (id, owner_id, code_hash, code_salt, used) VALUES (?, ?, ?, ?, FALSE)`
	unusedCodesQuery   = `SELECT id, code_hash, code_salt FROM backup_codes WHERE owner_id = ? AND used = FALSE`
	consumeCodeQuery   = `UPDATE backup_codes SET used = TRUE, used_at = ? WHERE id = ? AND used = FALSE`
	countUnusedQuery   = `SELECT COUNT(*) FROM backup_codes WHERE owner_id = ? AND used = FALSE`
)

// Hasher provides the salted, constant-time hashing the vault stores codes
// under. Satisfied by secrets.Provider.
type Hasher interface {
	HashPassword(password string) (hash, salt string, err error)
	VerifyPassword(password, hash, salt string) bool
}

// Vault issues and verifies single-use recovery codes. Plaintext codes are
// returned to the caller exactly once at generation time; only salted hashes
// are persisted.
type Vault struct {
	db     datastore.Datastore
	hasher Hasher
	log    *slog.Logger
	now    func() time.Time
}

// Option configures a Vault.
type Option func(*Vault)

// WithLogger sets the structured logger. Discards by default.
func WithLogger(log *slog.Logger) Option {
	return func(v *Vault) {
		if log != nil {
			v.log = log
		}
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(v *Vault) {
		if now != nil {
			v.now = now
		}
	}
}

// NewVault creates a vault over the given datastore and hasher.
func NewVault(db datastore.Datastore, hasher Hasher, opts ...Option) *Vault {
	v := &Vault{
		db:     db,
		hasher: hasher,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Replace invalidates every previously issued code for owner and stores a
// fresh batch, returning the plaintext codes for one-time display.
func (v *Vault) Replace(ctx context.Context, owner string, count int) ([]string, error) {
	codes, err := Generate(count)
	if err != nil {
		return nil, err
	}

	if _, err := v.db.Exec(ctx, replaceDeleteQuery, owner); err != nil {
		return nil, errors.Join(ErrPersistenceFailed, err)
	}

	for _, code := range codes {
		hash, salt, err := v.hasher.HashPassword(code)
		if err != nil {
			return nil, err
		}
		if _, err := v.db.Exec(ctx, insertCodeQuery, uuid.NewString(), owner, hash, salt); err != nil {
			return nil, errors.Join(ErrPersistenceFailed, err)
		}
	}

	return codes, nil
}

// Verify checks a submitted code against the owner's unused codes and, on the
// first match, consumes that code with a single conditional update. The
// rows-affected check guarantees a code is spent at most once even under
// concurrent verification attempts.
func (v *Vault) Verify(ctx context.Context, owner, submitted string) (bool, error) {
	submitted = strings.ToUpper(strings.TrimSpace(submitted))
	if !CodeRegex.MatchString(submitted) {
		return false, nil
	}

	type candidate struct {
		id   string
		hash string
		salt string
	}

	rows, err := v.db.Query(ctx, unusedCodesQuery, owner)
	if err != nil {
		return false, errors.Join(ErrPersistenceFailed, err)
	}

	var candidates []candidate
	for rows.Next() {
		var c candidate
		if err := rows.Scan(&c.id, &c.hash, &c.salt); err != nil {
			rows.Close()
			return false, errors.Join(ErrPersistenceFailed, err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return false, errors.Join(ErrPersistenceFailed, err)
	}
	rows.Close()

	for _, c := range candidates {
		if !v.hasher.VerifyPassword(submitted, c.hash, c.salt) {
			continue
		}

		affected, err := v.db.Exec(ctx, consumeCodeQuery, v.now().UTC(), c.id)
		if err != nil {
			return false, errors.Join(ErrPersistenceFailed, err)
		}
		if affected == 0 {
			// A concurrent verification spent this code first.
			v.log.WarnContext(ctx, "backup code already consumed", "owner", owner)
			return false, nil
		}
		return true, nil
	}

	return false, nil
}

// CountUnused returns the number of codes the owner can still spend.
func (v *Vault) CountUnused(ctx context.Context, owner string) (int, error) {
	var count int
	if err := v.db.QueryRow(ctx, countUnusedQuery, owner).Scan(&count); err != nil {
		return 0, errors.Join(ErrPersistenceFailed, err)
	}
	return count, nil
}
