package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(pool *pgxpool.Pool) repoer {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	stmt := `
	INSERT INTO users (username, password_hash)
	VALUES ($1, $2)
	RETURNING id::text, username, password_hash`

	var u User
	err := r.pool.QueryRow(ctx, stmt, username, passwordHash).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	stmt := `SELECT id::text, username, password_hash FROM users WHERE username = $1`
	return r.scanOne(r.pool.QueryRow(ctx, stmt, username))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrUserNotFound
	}

	stmt := `SELECT id::text, username, password_hash FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, stmt, id))
}

func (r *postgresRepo) scanOne(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]User, error) {
	stmt := `SELECT id::text, username, password_hash FROM users ORDER BY created_at`

	rows, err := r.pool.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
