package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
)

var ErrLocked = errors.New("lock is held by another owner")

//go:generate mockery --name=Locker

// Locker hands out exclusive locks by key without waiting for them
type Locker interface {
	TryLock(ctx context.Context, key string) (unlock func(), err error)
}

// PostgresLocker uses session level advisory locks, the connection that took the lock
// is kept out of the pool until unlock. It owns its pool so held locks never starve
// the connections used by the jobs themselves.
type PostgresLocker struct {
	conn *pgxpool.Pool
}

func NewPostgresLocker(ctx context.Context, endpoint string, maxConns int) (*PostgresLocker, error) {
	cfg, err := pgxpool.ParseConfig(endpoint)
	if err != nil {
		return nil, fmt.Errorf("locker couldn't parse endpoint: %v", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	conn, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("locker couldn't connect to postgres: %v", err)
	}
	return &PostgresLocker{
		conn: conn,
	}, nil
}

func (p *PostgresLocker) Close() {
	p.conn.Close()
}

func (p *PostgresLocker) TryLock(ctx context.Context, key string) (func(), error) {
	conn, err := p.conn.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("locker couldn't acquire connection: %v", err)
	}

	var locked bool
	if err = conn.QueryRow(ctx, `SELECT pg_try_advisory_lock(hashtext($1))`, key).Scan(&locked); err != nil {
		conn.Release()
		return nil, fmt.Errorf("locker couldn't take advisory lock %s: %v", key, err)
	}
	if !locked {
		conn.Release()
		return nil, fmt.Errorf("%s: %w", key, ErrLocked)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if _, err := conn.Exec(ctx, `SELECT pg_advisory_unlock(hashtext($1))`, key); err != nil {
				logrus.Errorf("locker couldn't release advisory lock %s: %v", key, err)
			}
			conn.Release()
		})
	}, nil
}

type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held: make(map[string]struct{}),
	}
}

func (l *LocalLocker) TryLock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, fmt.Errorf("%s: %w", key, ErrLocked)
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.held, key)
		})
	}, nil
}
