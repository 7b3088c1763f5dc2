package sessions

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// Repository stores login sessions. Find returns common.ErrorNotFound for
// unknown or already removed sessions. Deleting a missing session is not an
// error.
type Repository interface {
	Create(ctx context.Context, s *models.Session) error
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUsername(ctx context.Context, username string) error
}
