package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// WorkspacePostgres is a PostgreSQL implementation of repository.WorkspaceRepository.
type WorkspacePostgres struct {
	db *sql.DB
}

// NewWorkspacePostgres creates a new WorkspacePostgres repository.
func NewWorkspacePostgres(db *sql.DB) *WorkspacePostgres {
	return &WorkspacePostgres{db: db}
}

var _ repository.WorkspaceRepository = (*WorkspacePostgres)(nil)

func (r *WorkspacePostgres) Create(ctx context.Context, ws *model.Workspace) (*model.Workspace, error) {
	const q = `
		INSERT INTO workspaces (id, owner_id, name, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, name, created_at
	`
	return scanWorkspace(r.db.QueryRowContext(ctx, q, ws.ID, ws.OwnerID, ws.Name, ws.CreatedAt))
}

func (r *WorkspacePostgres) FindOwned(ctx context.Context, id, ownerID string) (*model.Workspace, error) {
	const q = `
		SELECT id, owner_id, name, created_at
		FROM workspaces
		WHERE id = $1 AND owner_id = $2
	`
	return scanWorkspace(r.db.QueryRowContext(ctx, q, id, ownerID))
}

func (r *WorkspacePostgres) ListByOwner(ctx context.Context, ownerID string) ([]model.Workspace, error) {
	const q = `
		SELECT id, owner_id, name, created_at
		FROM workspaces
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Workspace, 0)
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *ws)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *WorkspacePostgres) Rename(ctx context.Context, id, name string) (*model.Workspace, error) {
	const q = `
		UPDATE workspaces SET name = $2
		WHERE id = $1
		RETURNING id, owner_id, name, created_at
	`
	return scanWorkspace(r.db.QueryRowContext(ctx, q, id, name))
}

// Delete removes a workspace row. It does not return an error if the row does not exist.
func (r *WorkspacePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM workspaces WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func scanWorkspace(row rowScanner) (*model.Workspace, error) {
	var ws model.Workspace
	if err := row.Scan(&ws.ID, &ws.OwnerID, &ws.Name, &ws.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}
