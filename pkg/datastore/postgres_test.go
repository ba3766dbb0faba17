package datastore

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "single placeholder",
			query: "SELECT enabled FROM factor_secrets WHERE owner_id = ?",
			want:  "SELECT enabled FROM factor_secrets WHERE owner_id = $1",
		},
		{
			name:  "multiple placeholders",
			query: "UPDATE backup_codes SET used = TRUE, used_at = ? WHERE id = ? AND used = FALSE",
			want:  "UPDATE backup_codes SET used = TRUE, used_at = $1 WHERE id = $2 AND used = FALSE",
		},
		{
			name:  "question mark inside literal untouched",
			query: "SELECT '?' , owner_id FROM factor_secrets WHERE owner_id = ?",
			want:  "SELECT '?' , owner_id FROM factor_secrets WHERE owner_id = $1",
		},
		{
			name:  "ten placeholders",
			query: "INSERT INTO t VALUES (?,?,?,?,?,?,?,?,?,?)",
			want:  "INSERT INTO t VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rebind(tt.query))
		})
	}
}

func TestTranslateError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, translateError(nil))

	assert.True(t, IsNotFound(translateError(pgx.ErrNoRows)))

	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsDuplicateKey(translateError(dup)))

	fk := &pgconn.PgError{Code: "23503"}
	err := translateError(fk)
	assert.False(t, IsDuplicateKey(err))
	assert.False(t, IsNotFound(err))

	plain := errors.New("boom")
	assert.Equal(t, plain, translateError(plain))
}
