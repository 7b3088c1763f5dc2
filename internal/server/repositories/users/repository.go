package users

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Taken reports whether the username and the email are already in use.
	Taken(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
	Delete(ctx context.Context, username string) error
}
