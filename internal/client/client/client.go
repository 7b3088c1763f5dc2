package client

import (
	"context"

	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
)

// Account is what a user submits to create an account.
type Account struct {
	Username  string
	Password  []byte
	Email     string
	FirstName string
	LastName  string
}

type Client interface {
	Close() error
	Username() string
	Register(ctx context.Context, a Account) error
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*pb.ProfileResponse, error)
	AddNote(ctx context.Context, title, content string) (*pb.Note, error)
	EditNote(ctx context.Context, id int64, title, content string) (*pb.Note, error)
	DeleteNote(ctx context.Context, id int64) error
	Export(ctx context.Context) (string, error)
	DeleteAccount(ctx context.Context) error
}
