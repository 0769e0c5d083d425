package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// DB represents a PostgreSQL connection pool used for the audit trail
type DB struct {
	Pool *pgxpool.Pool
}

// PoolSize bounds the number of pooled connections
type PoolSize struct {
	MaxConns int32
	MinConns int32
}

// DefaultPoolSize is small; the pool only carries audit inserts
var DefaultPoolSize = PoolSize{MaxConns: 5, MinConns: 1}

// New connects to dbURL and pings it before returning
func New(ctx context.Context, dbURL string, size PoolSize) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing database URL: %w", err)
	}

	if size.MaxConns > 0 {
		poolConfig.MaxConns = size.MaxConns
	}
	if size.MinConns > 0 {
		poolConfig.MinConns = size.MinConns
	}

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
