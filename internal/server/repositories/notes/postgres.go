// Package notes implements the note store on PostgreSQL.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/inotebook/internal/common"
	"github.com/dmitrijs2005/inotebook/internal/dbx"
	"github.com/dmitrijs2005/inotebook/internal/server/models"
)

const noteColumns = "id, user_id, title, description, tag, attachment_key, created_at"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	n := &models.Note{}
	err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Tag, &n.AttachmentKey, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query :=
		`INSERT INTO notes (user_id, title, description, tag)
		 VALUES ($1, $2, $3, $4)
		 RETURNING ` + noteColumns

	n, err := scanNote(r.db.QueryRowContext(ctx, query, note.UserID, note.Title, note.Description, note.Tag))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	n, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Note, error) {
	query, args, err := sq.Select(noteColumns).
		From("notes").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at", "id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Update sets the non-empty fields of upd on the owner's note and returns the
// stored row. user_id is never part of the SET list.
func (r *PostgresRepository) Update(ctx context.Context, id, userID string, upd models.NoteUpdate) (*models.Note, error) {
	fields := upd.Fields()

	b := sq.Update("notes").PlaceholderFormat(sq.Dollar)
	for _, column := range []string{"title", "description", "tag"} {
		if v, ok := fields[column]; ok {
			b = b.Set(column, v)
		}
	}

	query, args, err := b.
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING " + noteColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	n, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM notes WHERE id = $1 AND user_id = $2`

	return r.execOne(ctx, query, id, userID)
}

func (r *PostgresRepository) SetAttachmentKey(ctx context.Context, id, userID, key string) error {
	query := `UPDATE notes SET attachment_key = $1 WHERE id = $2 AND user_id = $3`

	return r.execOne(ctx, query, key, id, userID)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
