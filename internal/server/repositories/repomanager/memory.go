package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/inotebook/internal/dbx"
	"github.com/dmitrijs2005/inotebook/internal/server/repositories/memory"
	"github.com/dmitrijs2005/inotebook/internal/server/repositories/notes"
	"github.com/dmitrijs2005/inotebook/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves every call from one memory.Store and
// ignores the db handle. It has no schema to migrate.
type InMemoryRepositoryManager struct {
	store *memory.Store
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{store: memory.NewStore()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.store.Users() }

func (m *InMemoryRepositoryManager) Notes(dbx.DBTX) notes.Repository { return m.store.Notes() }
