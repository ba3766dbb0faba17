package backupcode_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/pbxkit/mfa/pkg/backupcode"
	"github.com/pbxkit/mfa/pkg/datastore"
	"github.com/pbxkit/mfa/pkg/secrets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	codes, err := backupcode.Generate(100)
	require.NoError(t, err)
	require.Len(t, codes, 100)

	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		assert.Regexp(t, backupcode.CodeRegex, code)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestGenerateRejectsInvalidCount(t *testing.T) {
	t.Parallel()

	for _, count := range []int{0, -1} {
		_, err := backupcode.Generate(count)
		assert.ErrorIs(t, err, backupcode.ErrInvalidCodeCount)
	}
}

func TestVaultReplaceAndVerify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeStore()
	vault := backupcode.NewVault(store, secrets.New())

	codes, err := vault.Replace(ctx, "1001", 5)
	require.NoError(t, err)
	require.Len(t, codes, 5)

	count, err := vault.CountUnused(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	ok, err := vault.Verify(ctx, "1001", codes[2])
	require.NoError(t, err)
	assert.True(t, ok)

	// The same code can never be spent twice.
	ok, err = vault.Verify(ctx, "1001", codes[2])
	require.NoError(t, err)
	assert.False(t, ok)

	count, err = vault.CountUnused(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestVaultVerifyNormalizesInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	vault := backupcode.NewVault(newFakeStore(), secrets.New())

	codes, err := vault.Replace(ctx, "1001", 1)
	require.NoError(t, err)

	ok, err := vault.Verify(ctx, "1001", "  "+strings.ToLower(codes[0])+" ")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVaultVerifyRejectsWithoutQuerying(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeStore()
	vault := backupcode.NewVault(store, secrets.New())

	for _, code := range []string{"", "ABCD", "ABCD-EFG", "ABC0-DEFG", "123456"} {
		ok, err := vault.Verify(ctx, "1001", code)
		require.NoError(t, err)
		assert.False(t, ok, "code %q", code)
	}
	assert.Zero(t, store.queries, "malformed codes must not reach the datastore")
}

func TestVaultReplaceInvalidatesPriorBatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	vault := backupcode.NewVault(newFakeStore(), secrets.New())

	oldCodes, err := vault.Replace(ctx, "1001", 3)
	require.NoError(t, err)

	newCodes, err := vault.Replace(ctx, "1001", 3)
	require.NoError(t, err)

	ok, err := vault.Verify(ctx, "1001", oldCodes[0])
	require.NoError(t, err)
	assert.False(t, ok, "codes from the replaced batch must not verify")

	ok, err = vault.Verify(ctx, "1001", newCodes[0])
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVaultVerifyIsOwnerScoped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeStore()
	vault := backupcode.NewVault(store, secrets.New())

	codes, err := vault.Replace(ctx, "1001", 2)
	require.NoError(t, err)

	ok, err := vault.Verify(ctx, "1002", codes[0])
	require.NoError(t, err)
	assert.False(t, ok)
}

// fakeStore is an in-memory Datastore understanding the vault's queries.
type fakeStore struct {
	mu      sync.Mutex
	rows    []*codeRow
	queries int
}

type codeRow struct {
	id    string
	owner string
	hash  string
	salt  string
	used  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) Exec(_ context.Context, query string, args ...any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++

	switch {
	case strings.HasPrefix(query, "DELETE FROM backup_codes"):
		owner := args[0].(string)
		var kept []*codeRow
		var removed int64
		for _, r := range s.rows {
			if r.owner == owner {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		s.rows = kept
		return removed, nil

	case strings.HasPrefix(query, "INSERT INTO backup_codes"):
		s.rows = append(s.rows, &codeRow{
			id:    args[0].(string),
			owner: args[1].(string),
			hash:  args[2].(string),
			salt:  args[3].(string),
		})
		return 1, nil

	case strings.HasPrefix(query, "UPDATE backup_codes"):
		id := args[1].(string)
		for _, r := range s.rows {
			if r.id == id && !r.used {
				r.used = true
				return 1, nil
			}
		}
		return 0, nil
	}

	return 0, nil
}

func (s *fakeStore) Query(_ context.Context, query string, args ...any) (datastore.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++

	owner := args[0].(string)
	var result [][]any
	for _, r := range s.rows {
		if r.owner == owner && !r.used {
			result = append(result, []any{r.id, r.hash, r.salt})
		}
	}
	return &fakeRows{rows: result}, nil
}

func (s *fakeStore) QueryRow(_ context.Context, query string, args ...any) datastore.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++

	owner := args[0].(string)
	count := 0
	for _, r := range s.rows {
		if r.owner == owner && !r.used {
			count++
		}
	}
	return &fakeRow{values: []any{count}}
}

type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanInto(r.rows[r.pos-1], dest)
}

func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

type fakeRow struct {
	values []any
}

func (r *fakeRow) Scan(dest ...any) error {
	return scanInto(r.values, dest)
}

func scanInto(values []any, dest []any) error {
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		}
	}
	return nil
}
