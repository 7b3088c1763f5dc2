package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophnotes/internal/dbx"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/guard"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophnotes/internal/server/validation"
)

type NoteInput struct {
	Title   string `json:"title" validate:"notblank,max=100"`
	Content string `json:"content" validate:"notblank"`
}

type NoteService struct {
	db          *sql.DB
	withTx      dbx.Runner
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *NoteService {
	return &NoteService{
		db:          db,
		withTx:      dbx.WithTx,
		repomanager: m,
		logger:      l.With("module", "notes"),
	}
}

// Add creates a note owned by owner.
func (s *NoteService) Add(ctx context.Context, id *models.Identity, owner, csrfToken string, in NoteInput) (*models.Note, error) {
	err := guard.Require(id, guard.Authenticated(), guard.OwnerIs(owner), guard.AntiForgery(csrfToken))
	if err != nil {
		return nil, err
	}

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	note, err := s.repomanager.Notes(s.db).Create(ctx, &models.Note{
		Title:         in.Title,
		Content:       in.Content,
		OwnerUsername: owner,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "note created", "owner", owner, "id", note.ID)
	return note, nil
}

// Get returns a note for its owner. A missing note is reported before
// ownership is checked.
func (s *NoteService) Get(ctx context.Context, id *models.Identity, noteID int64) (*models.Note, error) {
	if err := guard.Require(id, guard.Authenticated()); err != nil {
		return nil, err
	}

	note, err := s.repomanager.Notes(s.db).Get(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if err := guard.Require(id, guard.OwnerIs(note.OwnerUsername)); err != nil {
		return nil, err
	}
	return note, nil
}

// Edit replaces title and content of a note. The row stays locked from the
// ownership check until the update commits.
func (s *NoteService) Edit(ctx context.Context, id *models.Identity, noteID int64, csrfToken string, in NoteInput) (*models.Note, error) {
	if err := guard.Require(id, guard.Authenticated()); err != nil {
		return nil, err
	}

	var updated *models.Note
	err := s.withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)

		note, err := repo.Get(ctx, noteID)
		if err != nil {
			return err
		}

		err = guard.Require(id, guard.OwnerIs(note.OwnerUsername), guard.AntiForgery(csrfToken))
		if err != nil {
			return err
		}

		if err := validation.Struct(in); err != nil {
			return err
		}

		note.Title = in.Title
		note.Content = in.Content
		updated, err = repo.Update(ctx, note)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a note and returns its owner.
func (s *NoteService) Delete(ctx context.Context, id *models.Identity, noteID int64, csrfToken string) (string, error) {
	if err := guard.Require(id, guard.Authenticated()); err != nil {
		return "", err
	}

	var owner string
	err := s.withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)

		note, err := repo.Get(ctx, noteID)
		if err != nil {
			return err
		}

		err = guard.Require(id, guard.OwnerIs(note.OwnerUsername), guard.AntiForgery(csrfToken))
		if err != nil {
			return err
		}

		owner = note.OwnerUsername
		return repo.Delete(ctx, noteID)
	})
	if err != nil {
		return "", err
	}

	return owner, nil
}

// ListByOwner returns the notes of username in creation order.
func (s *NoteService) ListByOwner(ctx context.Context, id *models.Identity, username string) ([]*models.Note, error) {
	if err := guard.Require(id, guard.Authenticated(), guard.OwnerIs(username)); err != nil {
		return nil, err
	}
	return s.repomanager.Notes(s.db).ListByOwner(ctx, username)
}
