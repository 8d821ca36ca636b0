package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

var ErrIdentityNotFound = errors.New("identity not found")

//go:generate mockery --name=Identity

// Identity is the authentication identity service. DeleteUser fails with
// ErrIdentityNotFound when there is no identity for the id.
type Identity interface {
	DeleteUser(ctx context.Context, userID string) error
}

type Postgres struct {
	conn *pgxpool.Pool
}

func NewPostgres(conn *pgxpool.Pool) *Postgres {
	return &Postgres{
		conn: conn,
	}
}

func (p *Postgres) CreateUser(ctx context.Context, userID, email string) error {
	query := `INSERT INTO auth.users (id, email) VALUES ($1, $2)`
	_, err := p.conn.Exec(ctx, query, userID, email)
	if err != nil {
		return fmt.Errorf("identity repository, create user error: %v", err)
	}
	return nil
}

func (p *Postgres) DeleteUser(ctx context.Context, userID string) error {
	query := `DELETE FROM auth.users WHERE id = $1`
	commandTag, err := p.conn.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("identity repository, delete user error: %v", err)
	}
	if commandTag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrIdentityNotFound)
	}
	return nil
}
