// Package grpc serves gophnotes.NotesService on top of the same services as
// the HTTP surface.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"google.golang.org/grpc"
)

type SessionResolver interface {
	Resolve(ctx context.Context, token string) *models.Identity
}

type UserService interface {
	Register(ctx context.Context, current *models.Identity, in services.RegisterInput) (*services.Login, error)
	Login(ctx context.Context, current *models.Identity, in services.LoginInput) (*services.Login, error)
	Logout(ctx context.Context, id *models.Identity, csrfToken string) error
	View(ctx context.Context, id *models.Identity, username string) (*models.Profile, error)
	Delete(ctx context.Context, id *models.Identity, username, csrfToken string) error
}

type NoteService interface {
	Add(ctx context.Context, id *models.Identity, owner, csrfToken string, in services.NoteInput) (*models.Note, error)
	Edit(ctx context.Context, id *models.Identity, noteID int64, csrfToken string, in services.NoteInput) (*models.Note, error)
	Delete(ctx context.Context, id *models.Identity, noteID int64, csrfToken string) (string, error)
}

type ExportService interface {
	Export(ctx context.Context, id *models.Identity, username, csrfToken string) (string, error)
}

type GRPCServer struct {
	address  string
	sessions SessionResolver
	users    UserService
	notes    NoteService
	exports  ExportService
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, ss SessionResolver, us UserService, ns NoteService, es ExportService) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		sessions: ss,
		users:    us,
		notes:    ns,
		exports:  es,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.identityInterceptor))
	pb.RegisterNotesServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
