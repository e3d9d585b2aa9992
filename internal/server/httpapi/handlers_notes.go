package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/inotebook/internal/common"
	"github.com/dmitrijs2005/inotebook/internal/logging"
	"github.com/dmitrijs2005/inotebook/internal/server/models"
	"github.com/gin-gonic/gin"
)

type NoteService interface {
	List(ctx context.Context, userID string) ([]*models.Note, error)
	Create(ctx context.Context, userID, title, description, tag string) (*models.Note, error)
	Update(ctx context.Context, userID, noteID string, upd models.NoteUpdate) (*models.Note, error)
	Delete(ctx context.Context, userID, noteID string) (*models.Note, error)
	AttachmentUploadURL(ctx context.Context, userID, noteID string) (key, url string, err error)
	AttachmentDownloadURL(ctx context.Context, userID, noteID string) (string, error)
}

// NoteHandler serves the note routes. All of them sit behind RequireAuth.
type NoteHandler struct {
	notes  NoteService
	logger logging.Logger
}

func NewNoteHandler(notes NoteService, logger logging.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

// caller returns the authenticated user id or writes a 401.
func (h *NoteHandler) caller(c *gin.Context) (string, bool) {
	userID, ok := UserIDFromContext(c.Request.Context())
	if !ok {
		writeError(c, h.logger, common.ErrInvalidToken)
	}
	return userID, ok
}

func (h *NoteHandler) List(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	list, err := h.notes.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := h.notes.Create(c.Request.Context(), userID, req.Title, req.Description, req.Tag)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NoteHandler) Update(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := h.notes.Update(c.Request.Context(), userID, c.Param("id"), models.NoteUpdate{
		Title:       &req.Title,
		Description: &req.Description,
		Tag:         &req.Tag,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NoteHandler) Delete(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	n, err := h.notes.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"Success": "Note has been deleted", "note": n})
}

func (h *NoteHandler) UploadAttachment(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	key, url, err := h.notes.AttachmentUploadURL(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, AttachmentUploadResponse{Key: key, URL: url})
}

func (h *NoteHandler) DownloadAttachment(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	url, err := h.notes.AttachmentDownloadURL(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, AttachmentDownloadResponse{URL: url})
}
