package repository

import (
	"context"
	"database/sql"
	"fmt"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// SQLite keeps identities in an embedded database for single node deployments
type SQLite struct {
	conn *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite has a single writer, and :memory: databases live per connection
	conn.SetMaxOpenConns(1)
	if err = conn.Ping(); err != nil {
		return nil, err
	}

	s := &SQLite{conn: conn}
	if err = s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.conn.Exec(`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

func (s *SQLite) CreateUser(ctx context.Context, userID, email string) error {
	_, err := s.conn.ExecContext(ctx, "INSERT INTO users (id, email) VALUES (?, ?)", userID, email)
	if err != nil {
		return fmt.Errorf("identity repository, create user error: %v", err)
	}
	return nil
}

func (s *SQLite) DeleteUser(ctx context.Context, userID string) error {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		return fmt.Errorf("identity repository, delete user error: %v", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("identity repository, rows affected error: %v", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrIdentityNotFound)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}
