// Package users provides the PostgreSQL-backed credential store.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// Messages reported on the offending form field when a unique key clashes.
const (
	UsernameTakenMessage = "Username is already taken."
	EmailTakenMessage    = "Email is already registered."
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the user. A unique constraint violation is reported as a
// uniqueness FieldError on the matching field rather than a driver error.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, hashed_password, email, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.HashedPassword, user.Email, user.FirstName, user.LastName).Scan(&user.CreatedAt)
	if err != nil {
		if uerr := uniquenessError(err); uerr != nil {
			return nil, uerr
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// GetByUsername returns the user or common.ErrorNotFound.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT username, hashed_password, email, first_name, last_name, created_at
		FROM users
		WHERE username = $1
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username, &user.HashedPassword, &user.Email, &user.FirstName, &user.LastName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Taken(ctx context.Context, username, email string) (bool, bool, error) {
	query := `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE username = $1),
			EXISTS (SELECT 1 FROM users WHERE email = $2)
	`
	var usernameTaken, emailTaken bool
	if err := r.db.QueryRowContext(ctx, query, username, email).Scan(&usernameTaken, &emailTaken); err != nil {
		return false, false, fmt.Errorf("db error: %w", err)
	}
	return usernameTaken, emailTaken, nil
}

// Delete removes the user row. Notes must already be gone; the foreign key
// is RESTRICT.
func (r *PostgresRepository) Delete(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func uniquenessError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return common.NewUniquenessError("email", EmailTakenMessage)
	default:
		return common.NewUniquenessError("username", UsernameTakenMessage)
	}
}
