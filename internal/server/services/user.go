package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/guard"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophnotes/internal/server/validation"
	"golang.org/x/crypto/bcrypt"
)

const PasswordTooLongMessage = "Password is too long."

type RegisterInput struct {
	Username  string `json:"username" validate:"notblank,max=20,pathsafe"`
	Password  string `json:"password" validate:"required,length=8:50"`
	Email     string `json:"email" validate:"notblank,email,max=50"`
	FirstName string `json:"first_name" validate:"notblank,max=30"`
	LastName  string `json:"last_name" validate:"notblank,max=30"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login is the outcome of a successful register or login.
type Login struct {
	User    *models.User
	Session *models.Session
	Token   string
}

// ExportPurger removes stored exports of a deleted account.
type ExportPurger interface {
	Purge(ctx context.Context, username string) error
}

type UserService struct {
	db          *sql.DB
	withTx      dbx.Runner
	repomanager repomanager.RepositoryManager
	sessions    *SessionService
	exports     ExportPurger
	bcryptCost  int
	logger      logging.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserService wires the credential store. exports may be nil.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, ss *SessionService, exports ExportPurger,
	cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		db:          db,
		withTx:      dbx.WithTx,
		repomanager: m,
		sessions:    ss,
		exports:     exports,
		bcryptCost:  cfg.BcryptCost,
		logger:      l.With("module", "users"),
	}
}

func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			fe := common.NewValidationError()
			fe.Add("password", PasswordTooLongMessage)
			return "", fe
		}
		return "", err
	}
	return string(hash), nil
}

// Register validates in, creates the account and logs it in. A session
// already held by current is ended first.
func (s *UserService) Register(ctx context.Context, current *models.Identity, in RegisterInput) (*Login, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       in.Username,
		HashedPassword: hash,
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
	}

	err = s.withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		usernameTaken, emailTaken, err := repo.Taken(ctx, user.Username, user.Email)
		if err != nil {
			return err
		}
		if usernameTaken || emailTaken {
			fe := &common.FieldError{Kind: common.ErrorAlreadyExists}
			if usernameTaken {
				fe.Add("username", users.UsernameTakenMessage)
			}
			if emailTaken {
				fe.Add("email", users.EmailTakenMessage)
			}
			return fe
		}

		user, err = repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.startSession(ctx, current, user)
}

func (s *UserService) startSession(ctx context.Context, current *models.Identity, user *models.User) (*Login, error) {
	if current != nil {
		if err := s.sessions.End(ctx, current.SessionID); err != nil {
			return nil, err
		}
	}

	sess, token, err := s.sessions.Start(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	return &Login{User: user, Session: sess, Token: token}, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.bcryptCost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

// Authenticate checks a username and password. Unknown users cost the same
// bcrypt comparison as known ones. Only infrastructure failures are errors.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, bool, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error loading user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, false, nil
	}

	return user, true, nil
}

// Login authenticates in and starts a session. On failure the current session
// is left untouched.
func (s *UserService) Login(ctx context.Context, current *models.Identity, in LoginInput) (*Login, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, ok, err := s.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.NewInvalidCredentialsError()
	}

	return s.startSession(ctx, current, user)
}

func (s *UserService) Logout(ctx context.Context, id *models.Identity, csrfToken string) error {
	if err := guard.Require(id, guard.Authenticated(), guard.AntiForgery(csrfToken)); err != nil {
		return err
	}
	return s.sessions.End(ctx, id.SessionID)
}

// View returns the profile page of username, visible to its owner only.
func (s *UserService) View(ctx context.Context, id *models.Identity, username string) (*models.Profile, error) {
	if err := guard.Require(id, guard.Authenticated(), guard.OwnerIs(username)); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	notes, err := s.repomanager.Notes(s.db).ListByOwner(ctx, username)
	if err != nil {
		return nil, err
	}

	return &models.Profile{User: user, Notes: notes, CSRFToken: id.CSRFToken}, nil
}

// Delete removes the account with all of its notes in one transaction, then
// ends every session of the account and drops its stored export.
func (s *UserService) Delete(ctx context.Context, id *models.Identity, username, csrfToken string) error {
	err := guard.Require(id, guard.Authenticated(), guard.OwnerIs(username), guard.AntiForgery(csrfToken))
	if err != nil {
		return err
	}

	var removed int64
	err = s.withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Notes(tx).DeleteByOwner(ctx, username)
		if err != nil {
			return err
		}
		removed = n
		return s.repomanager.Users(tx).Delete(ctx, username)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "account deleted", "username", username, "notes", removed)

	if err := s.sessions.EndAll(ctx, username); err != nil {
		return err
	}

	if s.exports != nil {
		if err := s.exports.Purge(ctx, username); err != nil {
			s.logger.Error(ctx, "failed to purge export", "username", username, "error", err)
		}
	}

	return nil
}
