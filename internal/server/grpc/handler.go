package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// toStatus is the single place where service errors become gRPC statuses.
// Unexpected errors are logged and reported without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorUnauthenticated), errors.Is(err, common.ErrorInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorAntiForgery):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrorExportDisabled):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		s.logger.Error(ctx, "rpc failed", "error", err)
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}

func toTimestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

func toPbNote(n *models.Note) *pb.Note {
	return &pb.Note{
		ID:            n.ID,
		Title:         n.Title,
		Content:       n.Content,
		OwnerUsername: n.OwnerUsername,
		CreatedAt:     toTimestamp(n.CreatedAt),
		UpdatedAt:     toTimestamp(n.UpdatedAt),
	}
}

func toSessionResponse(l *services.Login) *pb.SessionResponse {
	return &pb.SessionResponse{
		Username:    l.User.Username,
		AccessToken: l.Token,
		CSRFToken:   l.Session.CSRFToken,
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.SessionResponse, error) {
	login, err := s.users.Register(ctx, auth.IdentityFrom(ctx), services.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", login.User.Username)
	return toSessionResponse(login), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.SessionResponse, error) {
	login, err := s.users.Login(ctx, auth.IdentityFrom(ctx), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toSessionResponse(login), nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *pb.LogoutRequest) (*emptypb.Empty, error) {
	if err := s.users.Logout(ctx, auth.IdentityFrom(ctx), req.CSRFToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) ViewUser(ctx context.Context, req *pb.ViewUserRequest) (*pb.ProfileResponse, error) {
	p, err := s.users.View(ctx, auth.IdentityFrom(ctx), req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &pb.ProfileResponse{
		User: &pb.User{
			Username:  p.User.Username,
			Email:     p.User.Email,
			FirstName: p.User.FirstName,
			LastName:  p.User.LastName,
			CreatedAt: toTimestamp(p.User.CreatedAt),
		},
		Notes:     make([]*pb.Note, 0, len(p.Notes)),
		CSRFToken: p.CSRFToken,
	}
	for _, n := range p.Notes {
		resp.Notes = append(resp.Notes, toPbNote(n))
	}
	return resp, nil
}

func (s *GRPCServer) DeleteUser(ctx context.Context, req *pb.DeleteUserRequest) (*emptypb.Empty, error) {
	if err := s.users.Delete(ctx, auth.IdentityFrom(ctx), req.Username, req.CSRFToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) AddNote(ctx context.Context, req *pb.AddNoteRequest) (*pb.NoteResponse, error) {
	n, err := s.notes.Add(ctx, auth.IdentityFrom(ctx), req.Username, req.CSRFToken, services.NoteInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.NoteResponse{Note: toPbNote(n)}, nil
}

func (s *GRPCServer) EditNote(ctx context.Context, req *pb.EditNoteRequest) (*pb.NoteResponse, error) {
	n, err := s.notes.Edit(ctx, auth.IdentityFrom(ctx), req.ID, req.CSRFToken, services.NoteInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.NoteResponse{Note: toPbNote(n)}, nil
}

func (s *GRPCServer) DeleteNote(ctx context.Context, req *pb.DeleteNoteRequest) (*emptypb.Empty, error) {
	if _, err := s.notes.Delete(ctx, auth.IdentityFrom(ctx), req.ID, req.CSRFToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) ExportNotes(ctx context.Context, req *pb.ExportNotesRequest) (*pb.ExportNotesResponse, error) {
	url, err := s.exports.Export(ctx, auth.IdentityFrom(ctx), req.Username, req.CSRFToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.ExportNotesResponse{URL: url}, nil
}
