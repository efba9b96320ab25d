package locking

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
)

// AdvisoryLocker serializes work across processes with PostgreSQL
// session-level advisory locks. The pooled connection that took the lock is
// held until unlock, since the lock belongs to that session.
type AdvisoryLocker struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

// NewAdvisoryLocker connects a dedicated pgx pool for advisory locks.
func NewAdvisoryLocker(ctx context.Context, connString string, logger *logrus.Logger) (*AdvisoryLocker, error) {
	pool, err := pgxpool.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect lock pool: %w", err)
	}
	return &AdvisoryLocker{pool: pool, logger: logger}, nil
}

// Lock takes pg_advisory_lock(hashtext(key)) on a connection from the pool.
func (l *AdvisoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock connection: %w", err)
	}

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock(hashtext($1))`, key); err != nil {
		conn.Release()
		return nil, fmt.Errorf("pg_advisory_lock %q: %w", key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.unlock(conn, key) })
	}, nil
}

func (l *AdvisoryLocker) unlock(conn *pgxpool.Conn, key string) {
	// The request context may be gone already.
	if _, err := conn.Exec(context.Background(), `SELECT pg_advisory_unlock(hashtext($1))`, key); err != nil {
		l.logger.WithError(err).WithField("key", key).Error("Failed to release advisory lock")
		// Closing the session drops every lock it held.
		_ = conn.Conn().Close(context.Background())
	}
	conn.Release()
}

// Close closes the underlying pool
func (l *AdvisoryLocker) Close() {
	l.pool.Close()
}
