package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskmanager/model"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	user_id    TEXT PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	active     TEXT NOT NULL DEFAULT '1',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type PostgresUsers struct {
	pool *pgxpool.Pool
}

func NewPostgresUsers(pool *pgxpool.Pool) *PostgresUsers {
	return &PostgresUsers{pool: pool}
}

func (r *PostgresUsers) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, usersSchema); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}

func (r *PostgresUsers) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, email, password, active, created_at FROM users WHERE email = $1`, email).
		Scan(&u.UserID, &u.Email, &u.Password, &u.Active, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (r *PostgresUsers) UserExist(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query user: %w", err)
	}
	return exists, nil
}

func (r *PostgresUsers) CreateUser(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (user_id, email, password, active, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.UserID, u.Email, u.Password, u.Active, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
