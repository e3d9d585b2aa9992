package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/inotebook/internal/common"
	"github.com/dmitrijs2005/inotebook/internal/dbx"
	"github.com/dmitrijs2005/inotebook/internal/logging"
	"github.com/dmitrijs2005/inotebook/internal/server/models"
	"github.com/dmitrijs2005/inotebook/internal/server/repositories/notes"
	"github.com/dmitrijs2005/inotebook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/inotebook/internal/server/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// NoteListCache caches the per-user list. GetList returns nil on a miss plus
// the user's generation; SetList must skip the write once Invalidate has moved
// the generation past the one it is given.
type NoteListCache interface {
	GetList(ctx context.Context, userID string) ([]*models.Note, int64, error)
	SetList(ctx context.Context, userID string, gen int64, list []*models.Note) error
	Invalidate(ctx context.Context, userID string) error
}

// AttachmentStore hands out presigned object URLs.
type AttachmentStore interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// NoteService implements note CRUD for the authenticated user. Every
// operation on an existing note goes through ownedNote first.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       NoteListCache   // optional
	attachments AttachmentStore // optional
	logger      logging.Logger

	sf  singleflight.Group
	now func() time.Time
}

// NewNoteService constructs a NoteService. cache and attachments may be nil.
func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, cache NoteListCache,
	attachments AttachmentStore, logger logging.Logger) *NoteService {
	return &NoteService{
		db:          db,
		repomanager: m,
		cache:       cache,
		attachments: attachments,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns the caller's notes in creation order.
func (s *NoteService) List(ctx context.Context, userID string) ([]*models.Note, error) {
	if s.cache == nil {
		return s.list(ctx, userID)
	}

	// shared by every waiter, so one caller going away must not fail the rest
	fctx := context.WithoutCancel(ctx)

	v, err, _ := s.sf.Do("list:"+userID, func() (any, error) {
		cached, gen, readErr := s.cache.GetList(fctx, userID)
		if readErr != nil {
			s.logger.Warn(fctx, "note cache read failed", "user_id", userID, "error", readErr)
		} else if cached != nil {
			return cached, nil
		}

		list, err := s.list(fctx, userID)
		if err != nil {
			return nil, err
		}
		// without a generation the write could not be checked against writers
		if readErr != nil {
			return list, nil
		}
		if err := s.cache.SetList(fctx, userID, gen, list); err != nil {
			s.logger.Warn(fctx, "note cache write failed", "user_id", userID, "error", err)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*models.Note), nil
}

func (s *NoteService) list(ctx context.Context, userID string) ([]*models.Note, error) {
	list, err := s.repomanager.Notes(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, s.internal(ctx, "error listing notes", err, "user_id", userID)
	}
	return list, nil
}

// Create stores a new note owned by userID. An empty tag becomes
// common.DefaultNoteTag.
func (s *NoteService) Create(ctx context.Context, userID, title, description, tag string) (*models.Note, error) {
	if tag == "" {
		tag = common.DefaultNoteTag
	}

	n, err := s.repomanager.Notes(s.db).Create(ctx, &models.Note{
		UserID:      userID,
		Title:       title,
		Description: description,
		Tag:         tag,
	})
	if err != nil {
		return nil, s.internal(ctx, "error creating note", err, "user_id", userID)
	}

	s.invalidate(ctx, userID)
	return n, nil
}

// Update applies the non-empty fields of upd and returns the stored note.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, upd models.NoteUpdate) (*models.Note, error) {
	var out *models.Note

	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)

		n, err := s.ownedNote(ctx, repo, userID, noteID)
		if err != nil {
			return err
		}
		if len(upd.Fields()) == 0 {
			out = n
			return nil
		}

		out, err = repo.Update(ctx, noteID, userID, upd)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return s.internal(ctx, "error updating note", err, "note_id", noteID)
		}
		return nil
	})
	if err != nil {
		return nil, s.txError(ctx, err)
	}

	s.invalidate(ctx, userID)
	return out, nil
}

// Delete removes the note and returns it as it was before deletion.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) (*models.Note, error) {
	var out *models.Note

	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)

		n, err := s.ownedNote(ctx, repo, userID, noteID)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, noteID, userID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return s.internal(ctx, "error deleting note", err, "note_id", noteID)
		}
		out = n
		return nil
	})
	if err != nil {
		return nil, s.txError(ctx, err)
	}

	s.invalidate(ctx, userID)
	return out, nil
}

// AttachmentUploadURL assigns a fresh object key to the note and returns it
// with a presigned PUT URL.
func (s *NoteService) AttachmentUploadURL(ctx context.Context, userID, noteID string) (key, url string, err error) {
	if s.attachments == nil {
		return "", "", common.ErrorNotConfigured
	}

	err = s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Notes(tx)

		if _, err := s.ownedNote(ctx, repo, userID, noteID); err != nil {
			return err
		}

		key = storage.AttachmentKey(userID, noteID, s.now())

		var presignErr error
		url, presignErr = s.attachments.PresignPut(ctx, key)
		if presignErr != nil {
			return s.internal(ctx, "error presigning upload", presignErr, "note_id", noteID)
		}

		if err := repo.SetAttachmentKey(ctx, noteID, userID, key); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return s.internal(ctx, "error saving attachment key", err, "note_id", noteID)
		}
		return nil
	})
	if err != nil {
		return "", "", s.txError(ctx, err)
	}

	s.invalidate(ctx, userID)
	return key, url, nil
}

// AttachmentDownloadURL returns a presigned GET URL for the note's
// attachment. A note without one yields ErrorNotFound.
func (s *NoteService) AttachmentDownloadURL(ctx context.Context, userID, noteID string) (string, error) {
	if s.attachments == nil {
		return "", common.ErrorNotConfigured
	}

	n, err := s.ownedNote(ctx, s.repomanager.Notes(s.db), userID, noteID)
	if err != nil {
		return "", err
	}
	if n.AttachmentKey == "" {
		return "", common.ErrorNotFound
	}

	url, err := s.attachments.PresignGet(ctx, n.AttachmentKey)
	if err != nil {
		return "", s.internal(ctx, "error presigning download", err, "note_id", noteID)
	}
	return url, nil
}

// ownedNote loads the note and checks that userID owns it. A malformed or
// unknown id yields ErrorNotFound, someone else's note ErrorAccessDenied.
func (s *NoteService) ownedNote(ctx context.Context, repo notes.Repository, userID, noteID string) (*models.Note, error) {
	if _, err := uuid.Parse(noteID); err != nil {
		return nil, common.ErrorNotFound
	}

	n, err := repo.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "error loading note", err, "note_id", noteID)
	}

	if n.UserID != userID {
		s.logger.Warn(ctx, "note access denied", "note_id", noteID, "user_id", userID)
		return nil, common.ErrorAccessDenied
	}
	return n, nil
}

// inTx runs fn in a transaction, or directly when there is no database.
func (s *NoteService) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// txError passes domain errors through and turns begin/commit failures into
// ErrorInternal. A rollback failure joined to a domain error is logged.
func (s *NoteService) txError(ctx context.Context, err error) error {
	for _, domain := range []error{common.ErrorNotFound, common.ErrorAccessDenied, common.ErrorInternal} {
		if errors.Is(err, domain) {
			if err != domain {
				s.logger.Warn(ctx, "transaction rollback failed", "error", err)
			}
			return domain
		}
	}
	return s.internal(ctx, "transaction failed", err)
}

func (s *NoteService) internal(ctx context.Context, msg string, err error, args ...any) error {
	s.logger.Error(ctx, msg, append(args, "error", err)...)
	return common.ErrorInternal
}

func (s *NoteService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn(ctx, "note cache invalidate failed", "user_id", userID, "error", err)
	}
}
