package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// session is the login the client currently holds.
type session struct {
	username    string
	accessToken string
	csrfToken   string
}

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      pb.NotesServiceClient

	mu      sync.RWMutex
	session session
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) current() session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *GRPCClient) setSession(ss session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = ss
}

// accessTokenInterceptor attaches the session token and a call deadline.
// A session the server no longer accepts is forgotten.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if _, ok := ctx.Deadline(); !ok && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	token := s.current().accessToken
	if token != "" {
		ctx = withAccessToken(ctx, token)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)

	if token != "" && status.Code(err) == codes.Unauthenticated &&
		method != pb.NotesService_Login_FullMethodName && method != pb.NotesService_Register_FullMethodName {
		s.setSession(session{})
	}

	return err
}

func NewNotesClientService(endpointURL string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewNotesServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Username is the logged in user, or "" when logged out.
func (s *GRPCClient) Username() string {
	return s.current().username
}

func (s *GRPCClient) started(resp *pb.SessionResponse) {
	s.setSession(session{username: resp.Username, accessToken: resp.AccessToken, csrfToken: resp.CSRFToken})
}

func (s *GRPCClient) Register(ctx context.Context, a Account) error {

	req := &pb.RegisterRequest{
		Username:  a.Username,
		Password:  string(a.Password),
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	s.started(resp)
	return nil
}

func (s *GRPCClient) Login(ctx context.Context, userName string, password []byte) error {

	req := &pb.LoginRequest{Username: userName, Password: string(password)}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return s.mapError(err)
	}

	s.started(resp)
	return nil
}

// Logout ends the session on the server. The local session is dropped even
// when the server call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	cur := s.current()
	if cur.accessToken == "" {
		return ErrNotLoggedIn
	}
	defer s.setSession(session{})

	if _, err := s.client.Logout(ctx, &pb.LogoutRequest{CSRFToken: cur.csrfToken}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Profile(ctx context.Context) (*pb.ProfileResponse, error) {
	cur := s.current()
	if cur.accessToken == "" {
		return nil, ErrNotLoggedIn
	}

	resp, err := s.client.ViewUser(ctx, &pb.ViewUserRequest{Username: cur.username})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) AddNote(ctx context.Context, title, content string) (*pb.Note, error) {
	cur := s.current()
	if cur.accessToken == "" {
		return nil, ErrNotLoggedIn
	}

	req := &pb.AddNoteRequest{Username: cur.username, Title: title, Content: content, CSRFToken: cur.csrfToken}
	resp, err := s.client.AddNote(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Note, nil
}

func (s *GRPCClient) EditNote(ctx context.Context, id int64, title, content string) (*pb.Note, error) {
	cur := s.current()
	if cur.accessToken == "" {
		return nil, ErrNotLoggedIn
	}

	req := &pb.EditNoteRequest{ID: id, Title: title, Content: content, CSRFToken: cur.csrfToken}
	resp, err := s.client.EditNote(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Note, nil
}

func (s *GRPCClient) DeleteNote(ctx context.Context, id int64) error {
	cur := s.current()
	if cur.accessToken == "" {
		return ErrNotLoggedIn
	}

	if _, err := s.client.DeleteNote(ctx, &pb.DeleteNoteRequest{ID: id, CSRFToken: cur.csrfToken}); err != nil {
		return s.mapError(err)
	}
	return nil
}

// Export returns a temporary download link for the user's notes.
func (s *GRPCClient) Export(ctx context.Context) (string, error) {
	cur := s.current()
	if cur.accessToken == "" {
		return "", ErrNotLoggedIn
	}

	resp, err := s.client.ExportNotes(ctx, &pb.ExportNotesRequest{Username: cur.username, CSRFToken: cur.csrfToken})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.URL, nil
}

// DeleteAccount removes the logged in user with all notes.
func (s *GRPCClient) DeleteAccount(ctx context.Context) error {
	cur := s.current()
	if cur.accessToken == "" {
		return ErrNotLoggedIn
	}

	if _, err := s.client.DeleteUser(ctx, &pb.DeleteUserRequest{Username: cur.username, CSRFToken: cur.csrfToken}); err != nil {
		return s.mapError(err)
	}

	s.setSession(session{})
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument, codes.AlreadyExists, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
