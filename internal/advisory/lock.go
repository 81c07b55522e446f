// Package advisory serialises migration runs across processes with a
// session-level PostgreSQL advisory lock.
package advisory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"
)

// ErrLocked is returned by TryAcquire when another session holds the lock.
var ErrLocked = errors.New("advisory: lock held by another session")

// Lock is a held advisory lock. The lock belongs to the database session of
// a dedicated connection, so it must be released through Release rather than
// through the pool.
type Lock struct {
	conn *sql.Conn
	key  string
	id   int64
}

// KeyID hashes a lock key to the int64 pg_advisory_lock expects (FNV-1a,
// sign bit cleared).
func KeyID(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64() & 0x7FFFFFFFFFFFFFFF) //nolint:gosec // intentional truncation for advisory lock key
}

// Acquire blocks until the lock for key is held or ctx is done.
func Acquire(ctx context.Context, db *sql.DB, key string) (*Lock, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("advisory: reserving connection: %w", err)
	}
	id := KeyID(key)
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, id); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pg_advisory_lock(%d): %w", id, err)
	}
	return &Lock{conn: conn, key: key, id: id}, nil
}

// TryAcquire takes the lock for key without waiting. It returns ErrLocked
// when another session holds it.
func TryAcquire(ctx context.Context, db *sql.DB, key string) (*Lock, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("advisory: reserving connection: %w", err)
	}
	id := KeyID(key)
	var ok bool
	if err := conn.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, id).Scan(&ok); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pg_try_advisory_lock(%d): %w", id, err)
	}
	if !ok {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrLocked, key)
	}
	return &Lock{conn: conn, key: key, id: id}, nil
}

// Key returns the lock key.
func (l *Lock) Key() string { return l.key }

// ID returns the hashed lock id.
func (l *Lock) ID() int64 { return l.id }

// Release unlocks and returns the connection to the pool. It is safe to
// call more than once.
func (l *Lock) Release() error {
	if l.conn == nil {
		return nil
	}
	conn := l.conn
	l.conn = nil

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := conn.ExecContext(ctx, `SELECT pg_advisory_unlock($1)`, l.id)
	if cerr := conn.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("pg_advisory_unlock(%d): %w", l.id, err)
	}
	return nil
}
