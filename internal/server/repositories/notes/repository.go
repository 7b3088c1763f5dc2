package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	Get(ctx context.Context, id int64) (*models.Note, error)
	Update(ctx context.Context, note *models.Note) (*models.Note, error)
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, username string) ([]*models.Note, error)
	DeleteByOwner(ctx context.Context, username string) (int64, error)
}
