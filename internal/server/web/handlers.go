package web

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/guard"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type formResponse struct {
	Form      string       `json:"form"`
	Fields    []string     `json:"fields"`
	CSRFToken string       `json:"csrf_token,omitempty"`
	Note      *models.Note `json:"note,omitempty"`
}

var (
	registerFields = []string{"username", "password", "email", "first_name", "last_name"}
	loginFields    = []string{"username", "password"}
	noteFields     = []string{"title", "content", csrfField}
)

func (s *Server) registerForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formResponse{Form: "register", Fields: registerFields})
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, formResponse{Form: "login", Fields: loginFields})
}

func (s *Server) startedSession(w http.ResponseWriter, login *services.Login) {
	s.setSessionCookie(w, login.Token, login.Session.ExpiresAt)
	redirect(w, guard.UserPath(login.User.Username), redirectResponse{
		AccessToken: login.Token,
		CSRFToken:   login.Session.CSRFToken,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	login, err := s.users.Register(r.Context(), auth.IdentityFrom(r.Context()), services.RegisterInput{
		Username:  form["username"],
		Password:  form["password"],
		Email:     form["email"],
		FirstName: form["first_name"],
		LastName:  form["last_name"],
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.startedSession(w, login)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	login, err := s.users.Login(r.Context(), auth.IdentityFrom(r.Context()), services.LoginInput{
		Username: form["username"],
		Password: form["password"],
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.startedSession(w, login)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	if err := guard.Require(id, guard.Authenticated()); err != nil {
		s.writeError(w, r, err)
		return
	}

	form, err := readForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.users.Logout(r.Context(), id, csrfToken(r, form)); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.clearSessionCookie(w)
	redirect(w, guard.LoginPath, redirectResponse{})
}

func (s *Server) viewUser(w http.ResponseWriter, r *http.Request) {
	profile, err := s.users.View(r.Context(), auth.IdentityFrom(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// requireOwner runs the checks that precede reading the body of an action
// on /users/{username}.
func (s *Server) requireOwner(w http.ResponseWriter, r *http.Request) (*models.Identity, string, bool) {
	id := auth.IdentityFrom(r.Context())
	username := chi.URLParam(r, "username")
	if err := guard.Require(id, guard.Authenticated(), guard.OwnerIs(username)); err != nil {
		s.writeError(w, r, err)
		return nil, "", false
	}
	return id, username, true
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, username, ok := s.requireOwner(w, r)
	if !ok {
		return
	}

	form, err := readForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.users.Delete(r.Context(), id, username, csrfToken(r, form)); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.clearSessionCookie(w)
	redirect(w, "/register", redirectResponse{})
}

func (s *Server) addNoteForm(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.requireOwner(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, formResponse{Form: "add_note", Fields: noteFields, CSRFToken: id.CSRFToken})
}

func (s *Server) addNote(w http.ResponseWriter, r *http.Request) {
	id, owner, ok := s.requireOwner(w, r)
	if !ok {
		return
	}

	form, err := readForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	_, err = s.notes.Add(r.Context(), id, owner, csrfToken(r, form), services.NoteInput{
		Title:   form["title"],
		Content: form["content"],
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	redirect(w, guard.UserPath(owner), redirectResponse{})
}

// noteID parses the {id} path segment. Anything that is not a positive
// integer cannot name a note.
func noteID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrorNotFound
	}
	return id, nil
}

// noteBodyError reports an unreadable body on a note action, unless the note
// is missing or belongs to someone else.
func (s *Server) noteBodyError(w http.ResponseWriter, r *http.Request, id *models.Identity, nid int64, err error) {
	if _, gerr := s.notes.Get(r.Context(), id, nid); gerr != nil {
		err = gerr
	}
	s.writeError(w, r, err)
}

func (s *Server) editNoteForm(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	if err := guard.Require(id, guard.Authenticated()); err != nil {
		s.writeError(w, r, err)
		return
	}

	nid, err := noteID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	note, err := s.notes.Get(r.Context(), id, nid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, formResponse{Form: "edit_note", Fields: noteFields, CSRFToken: id.CSRFToken, Note: note})
}

func (s *Server) editNote(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	if err := guard.Require(id, guard.Authenticated()); err != nil {
		s.writeError(w, r, err)
		return
	}

	nid, err := noteID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	form, err := readForm(w, r)
	if err != nil {
		s.noteBodyError(w, r, id, nid, err)
		return
	}

	note, err := s.notes.Edit(r.Context(), id, nid, csrfToken(r, form), services.NoteInput{
		Title:   form["title"],
		Content: form["content"],
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	redirect(w, guard.UserPath(note.OwnerUsername), redirectResponse{})
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	if err := guard.Require(id, guard.Authenticated()); err != nil {
		s.writeError(w, r, err)
		return
	}

	nid, err := noteID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	form, err := readForm(w, r)
	if err != nil {
		s.noteBodyError(w, r, id, nid, err)
		return
	}

	owner, err := s.notes.Delete(r.Context(), id, nid, csrfToken(r, form))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	redirect(w, guard.UserPath(owner), redirectResponse{})
}

// exportNotes sends the caller to a presigned download of their notes.
func (s *Server) exportNotes(w http.ResponseWriter, r *http.Request) {
	id, username, ok := s.requireOwner(w, r)
	if !ok {
		return
	}

	form, err := readForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	url, err := s.exports.Export(r.Context(), id, username, csrfToken(r, form))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	redirect(w, url, redirectResponse{})
}
