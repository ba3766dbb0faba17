package datastore

import "context"

// Row is a single result row awaiting Scan.
type Row interface {
	Scan(dest ...any) error
}

// Rows is an iterable result set. Callers must Close it when done.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Datastore is the single parameterized persistence interface the MFA engine
// talks to. Queries use `?` placeholders; translating them into the backing
// store's dialect is the implementation's job, never the caller's.
// Implementations must be safe for concurrent use.
type Datastore interface {
	// Exec runs a statement and returns the number of rows affected.
	Exec(ctx context.Context, query string, args ...any) (int64, error)

	// Query runs a statement returning zero or more rows.
	Query(ctx context.Context, query string, args ...any) (Rows, error)

	// QueryRow runs a statement expected to return at most one row.
	// A missing row surfaces as ErrNotFound from Scan.
	QueryRow(ctx context.Context, query string, args ...any) Row
}
