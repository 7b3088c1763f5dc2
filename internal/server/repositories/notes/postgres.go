// Package notes provides the PostgreSQL-backed note repository.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// PostgresRepository implements note storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a note and fills in its generated ID and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query := `
		INSERT INTO notes (title, content, owner_username)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, note.Title, note.Content, note.OwnerUsername).
		Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

// Get returns the note or common.ErrorNotFound. Inside a transaction the row
// stays locked until commit, so a concurrent edit or delete waits.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Note, error) {
	query := `
		SELECT id, title, content, owner_username, created_at, updated_at
		FROM notes
		WHERE id = $1
		FOR UPDATE
	`
	note := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&note.ID, &note.Title, &note.Content, &note.OwnerUsername, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

// Update rewrites title and content only; the owner never changes.
func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) (*models.Note, error) {
	query := `
		UPDATE notes
		SET title = $2, content = $3, updated_at = now()
		WHERE id = $1
		RETURNING owner_username, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, note.ID, note.Title, note.Content).
		Scan(&note.OwnerUsername, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
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

// ListByOwner returns the user's notes in creation order.
func (r *PostgresRepository) ListByOwner(ctx context.Context, username string) ([]*models.Note, error) {
	query := `
		SELECT id, title, content, owner_username, created_at, updated_at
		FROM notes
		WHERE owner_username = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := []*models.Note{}
	for rows.Next() {
		var item models.Note
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Content, &item.OwnerUsername, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByOwner removes every note of username and returns how many went.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, username string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE owner_username = $1`, username)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
