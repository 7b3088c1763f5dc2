package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// memStore backs all fake repositories. Like the real schema it refuses to
// delete a user who still owns notes.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	notes    map[int64]*models.Note
	nextID   int64
	sessions map[string]*models.Session

	userDeleteErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		notes:    map[int64]*models.Note{},
		sessions: map[string]*models.Session{},
	}
}

type memSnapshot struct {
	users  map[string]models.User
	notes  map[int64]models.Note
	nextID int64
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{users: map[string]models.User{}, notes: map[int64]models.Note{}, nextID: s.nextID}
	for k, u := range s.users {
		snap.users[k] = *u
	}
	for k, n := range s.notes {
		snap.notes[k] = *n
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = map[string]*models.User{}
	for k, u := range snap.users {
		s.users[k] = &u
	}
	s.notes = map[int64]*models.Note{}
	for k, n := range snap.notes {
		s.notes[k] = &n
	}
	s.nextID = snap.nextID
}

// staged wraps run so that users and notes written by a failed transaction
// are discarded, as PostgreSQL would on rollback.
func (s *memStore) staged(run dbx.Runner) dbx.Runner {
	return func(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn dbx.TxFunc) error {
		snap := s.snapshot()
		err := run(ctx, db, opts, fn)
		if err != nil {
			s.restore(snap)
		}
		return err
	}
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.Username]; ok {
		return nil, common.NewUniquenessError("username", users.UsernameTakenMessage)
	}
	for _, other := range r.s.users {
		if other.Email == u.Email {
			return nil, common.NewUniquenessError("email", users.EmailTakenMessage)
		}
	}
	c := *u
	c.CreatedAt = time.Now()
	r.s.users[u.Username] = &c
	out := c
	return &out, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (r memUsers) Taken(_ context.Context, username, email string) (bool, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, byName := r.s.users[username]
	byEmail := false
	for _, u := range r.s.users {
		if u.Email == email {
			byEmail = true
		}
	}
	return byName, byEmail, nil
}

func (r memUsers) Delete(_ context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.userDeleteErr != nil {
		return r.s.userDeleteErr
	}
	if _, ok := r.s.users[username]; !ok {
		return common.ErrorNotFound
	}
	for _, n := range r.s.notes {
		if n.OwnerUsername == username {
			return errors.New("db error: notes_owner_username_fkey")
		}
	}
	delete(r.s.users, username)
	return nil
}

type memNotes struct{ s *memStore }

func (r memNotes) Create(_ context.Context, n *models.Note) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[n.OwnerUsername]; !ok {
		return nil, errors.New("db error: notes_owner_username_fkey")
	}
	r.s.nextID++
	c := *n
	c.ID = r.s.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.s.notes[c.ID] = &c
	out := c
	return &out, nil
}

func (r memNotes) Get(_ context.Context, id int64) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *n
	return &c, nil
}

func (r memNotes) Update(_ context.Context, n *models.Note) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.notes[n.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cur.Title = n.Title
	cur.Content = n.Content
	cur.UpdatedAt = time.Now()
	c := *cur
	return &c, nil
}

func (r memNotes) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.notes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.notes, id)
	return nil
}

func (r memNotes) ListByOwner(_ context.Context, username string) ([]*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Note{}
	for _, n := range r.s.notes {
		if n.OwnerUsername == username {
			c := *n
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memNotes) DeleteByOwner(_ context.Context, username string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, note := range r.s.notes {
		if note.OwnerUsername == username {
			delete(r.s.notes, id)
			n++
		}
	}
	return n, nil
}

type memSessions struct{ s *memStore }

func (r memSessions) Create(_ context.Context, sess *models.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *sess
	c.CreatedAt = time.Now()
	r.s.sessions[c.ID] = &c
	return nil
}

func (r memSessions) Find(_ context.Context, id string) (*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *sess
	return &c, nil
}

func (r memSessions) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func (r memSessions) DeleteByUsername(_ context.Context, username string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, sess := range r.s.sessions {
		if sess.Username == username {
			delete(r.s.sessions, id)
		}
	}
	return nil
}

func (s *memStore) sessionsOf(username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sess := range s.sessions {
		if sess.Username == username {
			n++
		}
	}
	return n
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return memUsers{m.s} }
func (m *fakeRepoManager) Notes(dbx.DBTX) notes.Repository              { return memNotes{m.s} }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository        { return memSessions{m.s} }

type recordingPurger struct {
	purged []string
	err    error
}

func (p *recordingPurger) Purge(_ context.Context, username string) error {
	p.purged = append(p.purged, username)
	return p.err
}

// env is a service graph over the in-memory store and a sqlmock DB that
// only sees transaction boundaries.
type env struct {
	store    *memStore
	mock     sqlmock.Sqlmock
	db       *sql.DB
	cfg      *config.Config
	sessions *SessionService
	users    *UserService
	notes    *NoteService
	purger   *recordingPurger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("sql expectations: %v", err)
		}
		db.Close()
	})

	cfg := &config.Config{
		SecretKey:               "k",
		SessionValidityDuration: time.Hour,
		BcryptCost:              bcrypt.MinCost,
	}
	st := newMemStore()
	rm := &fakeRepoManager{s: st}
	purger := &recordingPurger{}
	ss := NewSessionService(memSessions{st}, cfg, nopLogger{})

	us := NewUserService(db, rm, ss, purger, cfg, nopLogger{})
	us.withTx = st.staged(dbx.WithTx)
	ns := NewNoteService(db, rm, nopLogger{})
	ns.withTx = st.staged(dbx.WithTx)

	return &env{
		store:    st,
		mock:     mock,
		db:       db,
		cfg:      cfg,
		sessions: ss,
		users:    us,
		notes:    ns,
		purger:   purger,
	}
}

func (e *env) expectTx(commit bool) {
	e.mock.ExpectBegin()
	if commit {
		e.mock.ExpectCommit()
	} else {
		e.mock.ExpectRollback()
	}
}

// register creates username through the service and returns its identity.
func (e *env) register(t *testing.T, username string) *models.Identity {
	t.Helper()
	e.expectTx(true)
	login, err := e.users.Register(context.Background(), nil, RegisterInput{
		Username:  username,
		Password:  "password-" + username,
		Email:     username + "@example.com",
		FirstName: "First",
		LastName:  "Last",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return models.IdentityOf(login.Session)
}

func (e *env) addNote(t *testing.T, id *models.Identity, title string) *models.Note {
	t.Helper()
	n, err := e.notes.Add(context.Background(), id, id.Username, id.CSRFToken, NoteInput{Title: title, Content: "body of " + title})
	if err != nil {
		t.Fatalf("add note %q: %v", title, err)
	}
	return n
}
