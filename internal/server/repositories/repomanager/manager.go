// Package repomanager vends repository implementations bound to a database
// handle, so services can run the same code against *sql.DB, *sql.Tx or the
// in-memory store.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/inotebook/internal/dbx"
	"github.com/dmitrijs2005/inotebook/internal/server/repositories/notes"
	"github.com/dmitrijs2005/inotebook/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Notes(db dbx.DBTX) notes.Repository
}
