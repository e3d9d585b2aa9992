package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openNotesDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS notes (id INTEGER PRIMARY KEY, title TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func noteCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&n))
	return n
}

func TestWithTx_Commit(t *testing.T) {
	db := openNotesDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO notes(title) VALUES ('groceries')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, noteCount(t, db))
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := openNotesDB(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO notes(title) VALUES ('draft')`)
		require.NoError(t, e)
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, noteCount(t, db))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := openNotesDB(t)

	require.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			_, e := tx.ExecContext(ctx, `INSERT INTO notes(title) VALUES ('lost')`)
			require.NoError(t, e)
			panic("kaput")
		})
	})
	require.Equal(t, 0, noteCount(t, db))
}

func TestWithTx_BeginError(t *testing.T) {
	db := openNotesDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called)
}

func TestWithTx_RollbackFailureKeepsCause(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	denied := errors.New("not the owner")
	lost := errors.New("connection lost")

	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(lost)

	err = WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
		return denied
	})
	require.ErrorIs(t, err, denied)
	require.ErrorIs(t, err, lost)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_CommitError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	reset := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(reset)

	err = WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return nil })
	require.ErrorIs(t, err, reset)
	require.NoError(t, mock.ExpectationsWereMet())
}
