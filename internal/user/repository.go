package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")
)

const uniqueViolation = "23505"

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	UpdateEmail(ctx context.Context, id int64, email string) (*User, error)
}

type repo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) UserRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, email, role, hashed_password)
		VALUES ($1, LOWER($2), $3, $4)
		RETURNING id, created_at
	`

	row := r.db.QueryRow(ctx, query, u.Username, u.Email, u.Role, u.HashedPassword)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "users_email_key" {
				return ErrEmailTaken
			}
			return ErrUsernameTaken
		}
		return err
	}

	return nil
}

func (r *repo) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, username, email, role, hashed_password, created_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.HashedPassword,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *repo) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, email, role, hashed_password, created_at
		FROM users
		WHERE username = $1
		LIMIT 1
	`

	var u User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.HashedPassword,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}

// UpdateEmail writes the new email and returns the fresh row. A unique
// violation maps to ErrEmailTaken; the implicit transaction rolls back on
// any failure.
func (r *repo) UpdateEmail(ctx context.Context, id int64, email string) (*User, error) {
	query := `
		UPDATE users
		SET email = LOWER($1)
		WHERE id = $2
		RETURNING id, username, email, role, hashed_password, created_at
	`

	var u User
	err := r.db.QueryRow(ctx, query, email, id).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Role,
		&u.HashedPassword,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &u, nil
}
