package datastore

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Datastore on top of a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pgx pool. Use Connect to build the pool from
// configuration.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Connect establishes a PostgreSQL connection pool with retry logic.
// Uses linear backoff to handle transient network issues during startup
// without overwhelming the database.
func Connect(ctx context.Context, cfg Config) (*Postgres, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MaxIdleConns
	connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = cfg.MaxConnLifetime

	for i := 0; i < cfg.RetryAttempts; i++ {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		// Verify with an actual ping to catch authentication and permission issues.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		return NewPostgres(pool), nil
	}

	return nil, ErrFailedToOpenDBConnection
}

// Pool exposes the underlying pool for migrations and health checks.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

// Close releases all pool connections.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Healthcheck returns a closure compatible with standard health check
// interfaces that expect func(context.Context) error.
func (p *Postgres) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		if err := p.pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

func (p *Postgres) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := p.pool.Exec(ctx, rebind(query), args...)
	if err != nil {
		return 0, translateError(err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := p.pool.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, translateError(err)
	}
	return pgxRows{rows: rows}, nil
}

func (p *Postgres) QueryRow(ctx context.Context, query string, args ...any) Row {
	return pgxRow{row: p.pool.QueryRow(ctx, rebind(query), args...)}
}

type pgxRow struct {
	row pgx.Row
}

func (r pgxRow) Scan(dest ...any) error {
	return translateError(r.row.Scan(dest...))
}

type pgxRows struct {
	rows pgx.Rows
}

func (r pgxRows) Next() bool            { return r.rows.Next() }
func (r pgxRows) Scan(dest ...any) error { return translateError(r.rows.Scan(dest...)) }
func (r pgxRows) Err() error            { return translateError(r.rows.Err()) }
func (r pgxRows) Close()                { r.rows.Close() }

// rebind rewrites `?` placeholders into the `$1..$n` form pgx expects.
// Question marks inside single-quoted literals are left alone.
func rebind(query string) string {
	if !strings.ContainsRune(query, '?') {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inLiteral := false
	for _, r := range query {
		switch {
		case r == '\'':
			inLiteral = !inLiteral
			b.WriteRune(r)
		case r == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
