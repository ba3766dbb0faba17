// Package datastore provides the persistence boundary of the MFA engine: a
// single parameterized query interface plus a PostgreSQL implementation on
// pgx with retrying connect, health checks, and embedded goose migrations.
//
// Callers write queries with `?` placeholders; the implementation owns the
// translation into its own dialect, so no dialect knowledge leaks into the
// verification core. Driver errors are normalized onto package sentinels
// (ErrNotFound, ErrDuplicateKey) before they reach callers.
package datastore
