package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/sessions"
	"github.com/google/uuid"
)

var newSessionID = func() string {
	return uuid.NewString()
}

// SessionService issues and resolves login sessions. The client only ever
// holds a signed token; the session row itself lives in the store.
type SessionService struct {
	store    sessions.Repository
	secret   []byte
	validity time.Duration
	logger   logging.Logger
}

func NewSessionService(store sessions.Repository, cfg *config.Config, l logging.Logger) *SessionService {
	return &SessionService{
		store:    store,
		secret:   []byte(cfg.SecretKey),
		validity: cfg.SessionValidityDuration,
		logger:   l.With("module", "sessions"),
	}
}

// Start creates a session for username and returns it with its token.
func (s *SessionService) Start(ctx context.Context, username string) (*models.Session, string, error) {
	csrf, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, "", fmt.Errorf("error generating csrf token: %w", err)
	}

	sess := &models.Session{
		ID:        newSessionID(),
		Username:  username,
		CSRFToken: csrf,
		ExpiresAt: time.Now().Add(s.validity).UTC(),
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("error creating session: %w", err)
	}

	token, err := auth.GenerateToken(username, sess.ID, s.secret, s.validity)
	if err != nil {
		return nil, "", fmt.Errorf("error signing session token: %w", err)
	}

	return sess, token, nil
}

// Resolve maps a token to the identity it carries. Every failure, including
// store errors, resolves to nil.
func (s *SessionService) Resolve(ctx context.Context, token string) *models.Identity {
	if token == "" {
		return nil
	}

	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		s.logger.Debug(ctx, "rejected session token", "error", err)
		return nil
	}

	sess, err := s.store.Find(ctx, claims.ID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "session lookup failed", "error", err)
		}
		return nil
	}

	if sess.Username != claims.Subject || sess.Expired(time.Now()) {
		return nil
	}

	return models.IdentityOf(sess)
}

func (s *SessionService) End(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("error ending session: %w", err)
	}
	return nil
}

// EndAll logs username out everywhere.
func (s *SessionService) EndAll(ctx context.Context, username string) error {
	if err := s.store.DeleteByUsername(ctx, username); err != nil {
		return fmt.Errorf("error ending sessions of %s: %w", username, err)
	}
	return nil
}
