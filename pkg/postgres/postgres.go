// Package postgres opens pooled sqlx connections to PostgreSQL through the pgx
// driver and applies schema migrations.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	driverName = "pgx"

	defaultConnMaxIdleTime = 5 * time.Minute
	defaultConnMaxLifetime = 30 * time.Minute
	defaultMaxIdleConns    = 5
	defaultMaxOpenConns    = 25
	defaultConnectTimeout  = 10 * time.Second
)

type options struct {
	connMaxIdleTime time.Duration
	connMaxLifetime time.Duration
	maxIdleConns    int
	maxOpenConns    int
	connectTimeout  time.Duration
}

type Option func(*options)

func WithConnMaxIdleTime(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.connMaxIdleTime = d
		}
	}
}

func WithConnMaxLifetime(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.connMaxLifetime = d
		}
	}
}

func WithMaxIdleConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxIdleConns = n
		}
	}
}

func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxOpenConns = n
		}
	}
}

// WithConnectTimeout bounds the initial connection and ping.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.connectTimeout = d
		}
	}
}

// New connects to the database identified by dsn and verifies the connection.
// Zero or negative option values keep the defaults.
func New(ctx context.Context, dsn string, opts ...Option) (*sqlx.DB, error) {
	const op = "postgres.New"

	o := options{
		connMaxIdleTime: defaultConnMaxIdleTime,
		connMaxLifetime: defaultConnMaxLifetime,
		maxIdleConns:    defaultMaxIdleConns,
		maxOpenConns:    defaultMaxOpenConns,
		connectTimeout:  defaultConnectTimeout,
	}

	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithTimeout(ctx, o.connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	db.SetConnMaxIdleTime(o.connMaxIdleTime)
	db.SetConnMaxLifetime(o.connMaxLifetime)
	db.SetMaxIdleConns(o.maxIdleConns)
	db.SetMaxOpenConns(o.maxOpenConns)

	return db, nil
}
