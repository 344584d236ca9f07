package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wsCols = []string{"id", "owner_id", "name", "created_at"}

func newWorkspaceRepo(t *testing.T) (*WorkspacePostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWorkspacePostgres(db), mock
}

func TestWorkspacePostgres_Create(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)
	now := time.Now().UTC()
	ws := &model.Workspace{ID: "ws-1", OwnerID: "p-1", Name: "Taxes", CreatedAt: now}

	mock.ExpectQuery("INSERT INTO workspaces").
		WithArgs(ws.ID, ws.OwnerID, ws.Name, ws.CreatedAt).
		WillReturnRows(sqlmock.NewRows(wsCols).AddRow(ws.ID, ws.OwnerID, ws.Name, ws.CreatedAt))

	got, err := repo.Create(context.Background(), ws)

	require.NoError(t, err)
	assert.Equal(t, "Taxes", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspacePostgres_FindOwned(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)
	q := regexp.QuoteMeta("WHERE id = $1 AND owner_id = $2")

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(q).
			WithArgs("ws-1", "p-1").
			WillReturnRows(sqlmock.NewRows(wsCols).AddRow("ws-1", "p-1", "Taxes", time.Now()))

		ws, err := repo.FindOwned(context.Background(), "ws-1", "p-1")
		require.NoError(t, err)
		assert.Equal(t, "ws-1", ws.ID)
	})

	t.Run("other owner", func(t *testing.T) {
		mock.ExpectQuery(q).
			WithArgs("ws-1", "p-2").
			WillReturnRows(sqlmock.NewRows(wsCols))

		ws, err := repo.FindOwned(context.Background(), "ws-1", "p-2")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, ws)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspacePostgres_ListByOwner(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM workspaces WHERE owner_id = $1 ORDER BY created_at DESC")).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(wsCols).
			AddRow("ws-2", "p-1", "B", time.Now()).
			AddRow("ws-1", "p-1", "A", time.Now().Add(-time.Hour)))

	items, err := repo.ListByOwner(context.Background(), "p-1")

	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspacePostgres_RenameAndDelete(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE workspaces SET name = $2")).
		WithArgs("ws-1", "Renamed").
		WillReturnRows(sqlmock.NewRows(wsCols).AddRow("ws-1", "p-1", "Renamed", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM workspaces WHERE id = $1")).
		WithArgs("ws-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ws, err := repo.Rename(context.Background(), "ws-1", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", ws.Name)

	assert.NoError(t, repo.Delete(context.Background(), "ws-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
