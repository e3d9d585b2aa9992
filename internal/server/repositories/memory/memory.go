// Package memory provides mutex-guarded in-process implementations of the
// users and notes repositories. They back the server when no database DSN is
// configured and give service tests a realistic store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/inotebook/internal/common"
	"github.com/dmitrijs2005/inotebook/internal/server/models"
	"github.com/google/uuid"
)

// Store holds both tables so the notes side can check owners exist.
type Store struct {
	mu    sync.RWMutex
	users map[string]models.User
	notes map[string]models.Note
	now   func() time.Time
	last  time.Time
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]models.User),
		notes: make(map[string]models.Note),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// nextCreatedAt keeps creation times strictly increasing so list order
// follows insertion order. Callers hold mu.
func (s *Store) nextCreatedAt() time.Time {
	t := s.now().Truncate(time.Microsecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// UsersRepository implements users.Repository.
type UsersRepository struct{ s *Store }

// NotesRepository implements notes.Repository.
type NotesRepository struct{ s *Store }

func (s *Store) Users() *UsersRepository { return &UsersRepository{s: s} }
func (s *Store) Notes() *NotesRepository { return &NotesRepository{s: s} }

func (r *UsersRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("%w: users_email_key", common.ErrorDuplicate)
		}
		if u.UserName == user.UserName {
			return nil, fmt.Errorf("%w: users_username_key", common.ErrorDuplicate)
		}
	}

	stored := *user
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.s.nextCreatedAt()
	r.s.users[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *UsersRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *UsersRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

// Count returns the number of stored users.
func (r *UsersRepository) Count() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users)
}

func (r *NotesRepository) Create(_ context.Context, note *models.Note) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[note.UserID]; !ok {
		return nil, fmt.Errorf("db error: owner %q does not exist", note.UserID)
	}

	stored := *note
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.s.nextCreatedAt()
	r.s.notes[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *NotesRepository) GetByID(_ context.Context, id string) (*models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &n, nil
}

func (r *NotesRepository) ListByUser(_ context.Context, userID string) ([]*models.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*models.Note, 0)
	for _, n := range r.s.notes {
		if n.UserID == userID {
			out := n
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *NotesRepository) Update(_ context.Context, id, userID string, upd models.NoteUpdate) (*models.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok || n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	upd.Apply(&n)
	r.s.notes[id] = n

	return &n, nil
}

func (r *NotesRepository) Delete(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok || n.UserID != userID {
		return common.ErrorNotFound
	}
	delete(r.s.notes, id)
	return nil
}

func (r *NotesRepository) SetAttachmentKey(_ context.Context, id, userID, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]
	if !ok || n.UserID != userID {
		return common.ErrorNotFound
	}
	n.AttachmentKey = key
	r.s.notes[id] = n
	return nil
}
