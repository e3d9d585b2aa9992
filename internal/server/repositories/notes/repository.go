package notes

import (
	"context"

	"github.com/dmitrijs2005/inotebook/internal/server/models"
)

// Repository is the note store. Methods that address a single note fail with
// common.ErrorNotFound when it does not exist. Update, Delete and
// SetAttachmentKey are additionally scoped to the owner and report
// common.ErrorNotFound for a foreign note.
type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Note, error)
	Update(ctx context.Context, id, userID string, upd models.NoteUpdate) (*models.Note, error)
	Delete(ctx context.Context, id, userID string) error
	SetAttachmentKey(ctx context.Context, id, userID, key string) error
}
