package grpc

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	pb "github.com/dmitrijs2005/gophnotes/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func statusOf(err error) *status.Status {
	st, _ := status.FromError(err)
	return st
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.Register(as(""), &pb.RegisterRequest{Username: "carol", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, &pb.SessionResponse{Username: "carol", AccessToken: "tok-new", CSRFToken: "csrf-new"}, resp)

	_, err = h.client.Register(as(""), &pb.RegisterRequest{Username: "taken"})
	assert.Equal(t, codes.AlreadyExists, statusOf(err).Code())
	assert.Contains(t, statusOf(err).Message(), "Username is already taken.")
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Login(as(""), &pb.LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, codes.Unauthenticated, statusOf(err).Code())

	h.users.err = common.ErrorInternal
	_, err = h.client.Login(as(""), &pb.LoginRequest{Username: "alice", Password: "secret"})
	assert.Equal(t, codes.Internal, statusOf(err).Code())
}

func TestLogout(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Logout(as("tok-alice"), &pb.LogoutRequest{CSRFToken: "csrf-a"})
	require.NoError(t, err)

	_, err = h.client.Logout(as("tok-alice"), &pb.LogoutRequest{CSRFToken: "csrf-b"})
	assert.Equal(t, codes.InvalidArgument, statusOf(err).Code())

	_, err = h.client.Logout(as(""), &pb.LogoutRequest{})
	assert.Equal(t, codes.Unauthenticated, statusOf(err).Code())
}

func TestViewUser(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.ViewUser(as("tok-alice"), &pb.ViewUserRequest{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "csrf-a", resp.CSRFToken)
	require.Len(t, resp.Notes, 1)
	assert.Equal(t, "first", resp.Notes[0].Title)
	assert.True(t, resp.Notes[0].CreatedAt.AsTime().Equal(noteTime))
	assert.True(t, resp.Notes[0].UpdatedAt.AsTime().Equal(noteTime.Add(time.Minute)))
	assert.Nil(t, resp.User.CreatedAt)

	_, err = h.client.ViewUser(as("tok-alice"), &pb.ViewUserRequest{Username: "bob"})
	assert.Equal(t, codes.PermissionDenied, statusOf(err).Code())

	_, err = h.client.ViewUser(as(""), &pb.ViewUserRequest{Username: "bob"})
	assert.Equal(t, codes.Unauthenticated, statusOf(err).Code())
}

func TestDeleteUser(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.DeleteUser(as("tok-alice"), &pb.DeleteUserRequest{Username: "bob", CSRFToken: "csrf-a"})
	assert.Equal(t, codes.PermissionDenied, statusOf(err).Code())
	assert.Empty(t, h.users.deleted)

	_, err = h.client.DeleteUser(as("tok-alice"), &pb.DeleteUserRequest{Username: "alice", CSRFToken: "csrf-a"})
	require.NoError(t, err)
	assert.Equal(t, "alice", h.users.deleted)
}

func TestAddNote(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.AddNote(as("tok-alice"), &pb.AddNoteRequest{Username: "alice", Title: "t", Content: "c", CSRFToken: "csrf-a"})
	require.NoError(t, err)
	assert.Equal(t, &pb.Note{ID: 9, Title: "t", Content: "c", OwnerUsername: "alice"}, resp.Note)

	_, err = h.client.AddNote(as("tok-alice"), &pb.AddNoteRequest{Username: "alice", CSRFToken: "csrf-a"})
	assert.Equal(t, codes.InvalidArgument, statusOf(err).Code())
	assert.Contains(t, statusOf(err).Message(), "title: This field is required.")

	_, err = h.client.AddNote(as("tok-alice"), &pb.AddNoteRequest{Username: "bob", Title: "t", CSRFToken: "csrf-a"})
	assert.Equal(t, codes.PermissionDenied, statusOf(err).Code())
}

func TestEditNote(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.EditNote(as("tok-alice"), &pb.EditNoteRequest{ID: 1, Title: "new", Content: "c", CSRFToken: "csrf-a"})
	require.NoError(t, err)
	assert.Equal(t, "new", resp.Note.Title)

	_, err = h.client.EditNote(as("tok-alice"), &pb.EditNoteRequest{ID: 2, Title: "new", CSRFToken: "csrf-a"})
	assert.Equal(t, codes.PermissionDenied, statusOf(err).Code())

	_, err = h.client.EditNote(as("tok-alice"), &pb.EditNoteRequest{ID: 42, CSRFToken: "csrf-a"})
	assert.Equal(t, codes.NotFound, statusOf(err).Code())
}

func TestDeleteNote(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.DeleteNote(as("tok-bob"), &pb.DeleteNoteRequest{ID: 1, CSRFToken: "csrf-b"})
	assert.Equal(t, codes.PermissionDenied, statusOf(err).Code())

	_, err = h.client.DeleteNote(as("tok-alice"), &pb.DeleteNoteRequest{ID: 1, CSRFToken: ""})
	assert.Equal(t, codes.InvalidArgument, statusOf(err).Code())

	_, err = h.client.DeleteNote(as("tok-alice"), &pb.DeleteNoteRequest{ID: 1, CSRFToken: "csrf-a"})
	require.NoError(t, err)
	assert.NotContains(t, h.notes.notes, int64(1))
}

func TestExportNotes(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.ExportNotes(as("tok-alice"), &pb.ExportNotesRequest{Username: "alice", CSRFToken: "csrf-a"})
	require.NoError(t, err)
	assert.Contains(t, resp.URL, "users/alice/notes.json")

	h.exports.err = common.ErrorExportDisabled
	_, err = h.client.ExportNotes(as("tok-alice"), &pb.ExportNotesRequest{Username: "alice", CSRFToken: "csrf-a"})
	assert.Equal(t, codes.FailedPrecondition, statusOf(err).Code())
}
