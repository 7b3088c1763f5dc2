// Package proto holds the gophnotes.NotesService contract described by
// api/notes.proto: request and response messages, the service descriptor,
// and a typed client. Messages travel in protobuf wire format.
package proto

import "google.golang.org/protobuf/types/known/timestamppb"

type User struct {
	Username  string                 `pb:"username"`
	Email     string                 `pb:"email"`
	FirstName string                 `pb:"first_name"`
	LastName  string                 `pb:"last_name"`
	CreatedAt *timestamppb.Timestamp `pb:"created_at"`
}

type Note struct {
	ID            int64                  `pb:"id"`
	Title         string                 `pb:"title"`
	Content       string                 `pb:"content"`
	OwnerUsername string                 `pb:"owner_username"`
	CreatedAt     *timestamppb.Timestamp `pb:"created_at"`
	UpdatedAt     *timestamppb.Timestamp `pb:"updated_at"`
}

type RegisterRequest struct {
	Username  string `pb:"username"`
	Password  string `pb:"password"`
	Email     string `pb:"email"`
	FirstName string `pb:"first_name"`
	LastName  string `pb:"last_name"`
}

type LoginRequest struct {
	Username string `pb:"username"`
	Password string `pb:"password"`
}

// SessionResponse carries a freshly started session.
type SessionResponse struct {
	Username    string `pb:"username"`
	AccessToken string `pb:"access_token"`
	CSRFToken   string `pb:"csrf_token"`
}

type LogoutRequest struct {
	CSRFToken string `pb:"csrf_token"`
}

type ViewUserRequest struct {
	Username string `pb:"username"`
}

type ProfileResponse struct {
	User      *User   `pb:"user"`
	Notes     []*Note `pb:"notes"`
	CSRFToken string  `pb:"csrf_token"`
}

type DeleteUserRequest struct {
	Username  string `pb:"username"`
	CSRFToken string `pb:"csrf_token"`
}

type AddNoteRequest struct {
	Username  string `pb:"username"`
	Title     string `pb:"title"`
	Content   string `pb:"content"`
	CSRFToken string `pb:"csrf_token"`
}

type EditNoteRequest struct {
	ID        int64  `pb:"id"`
	Title     string `pb:"title"`
	Content   string `pb:"content"`
	CSRFToken string `pb:"csrf_token"`
}

type DeleteNoteRequest struct {
	ID        int64  `pb:"id"`
	CSRFToken string `pb:"csrf_token"`
}

type NoteResponse struct {
	Note *Note `pb:"note"`
}

type ExportNotesRequest struct {
	Username  string `pb:"username"`
	CSRFToken string `pb:"csrf_token"`
}

type ExportNotesResponse struct {
	URL string `pb:"url"`
}
