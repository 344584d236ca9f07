package repository

import (
	"context"

	"docvault/internal/model"
)

// WorkspaceRepository defines data access for workspace records.
type WorkspaceRepository interface {
	Create(ctx context.Context, ws *model.Workspace) (*model.Workspace, error)

	// FindOwned returns the workspace with the given id owned by ownerID, or ErrNotFound.
	FindOwned(ctx context.Context, id, ownerID string) (*model.Workspace, error)

	// ListByOwner returns the owner's workspaces, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Workspace, error)

	// Rename updates the workspace name; ErrNotFound if it does not exist.
	Rename(ctx context.Context, id, name string) (*model.Workspace, error)

	// Delete removes a workspace by ID. Missing rows are not an error.
	Delete(ctx context.Context, id string) error
}
