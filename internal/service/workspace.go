package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"docvault/internal/events"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

// WorkspaceService manages workspaces. Every lookup is scoped to the owner, so a
// workspace owned by someone else is reported as not found.
type WorkspaceService interface {
	Create(ctx context.Context, principal, name string) (*model.Workspace, error)
	ListByOwner(ctx context.Context, principal string) ([]model.Workspace, error)
	Get(ctx context.Context, id, principal string) (*model.Workspace, error)
	Update(ctx context.Context, id, principal, name string) (*model.Workspace, error)
	// Delete removes the workspace and purges every document in it, soft-deleted or not.
	Delete(ctx context.Context, id, principal string) error
}

type workspaceService struct {
	workspaces repository.WorkspaceRepository
	documents  repository.DocumentRepository
	store      storage.Storage
	opts       options
}

// NewWorkspaceService constructs a WorkspaceService.
func NewWorkspaceService(
	workspaces repository.WorkspaceRepository,
	documents repository.DocumentRepository,
	store storage.Storage,
	opts ...Option,
) WorkspaceService {
	return &workspaceService{
		workspaces: workspaces,
		documents:  documents,
		store:      store,
		opts:       buildOptions(opts),
	}
}

func (s *workspaceService) Create(ctx context.Context, principal, name string) (*model.Workspace, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := requireField(name, "name"); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.Create(ctx, &model.Workspace{
		ID:        uuid.New().String(),
		OwnerID:   principal,
		Name:      name,
		CreatedAt: s.opts.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return ws, nil
}

func (s *workspaceService) ListByOwner(ctx context.Context, principal string) ([]model.Workspace, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	items, err := s.workspaces.ListByOwner(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return items, nil
}

func (s *workspaceService) Get(ctx context.Context, id, principal string) (*model.Workspace, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := requireField(id, "workspace id"); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.FindOwned(ctx, id, principal)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "workspace not found")
		}
		return nil, fmt.Errorf("find workspace: %w", err)
	}
	return ws, nil
}

func (s *workspaceService) Update(ctx context.Context, id, principal, name string) (*model.Workspace, error) {
	name = strings.TrimSpace(name)
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := requireField(name, "name"); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id, principal); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.Rename(ctx, id, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "workspace not found")
		}
		return nil, fmt.Errorf("rename workspace: %w", err)
	}
	return ws, nil
}

// Delete runs the cascade in a fixed order: delete the workspace record, delete
// the document records, then delete each removed document's bytes. The records
// removed and the records purged come from one statement, so a document added
// concurrently is either kept or has its bytes purged. Byte deletion is best
// effort and continues past failures.
func (s *workspaceService) Delete(ctx context.Context, id, principal string) error {
	if _, err := s.Get(ctx, id, principal); err != nil {
		return err
	}

	if err := s.workspaces.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}

	docs, err := s.documents.DeleteMany(ctx, repository.DocumentFilter{WorkspaceID: id})
	if err != nil {
		return fmt.Errorf("delete workspace documents: %w", err)
	}

	for i := range docs {
		purgeBytes(ctx, s.store, s.opts.logger, docs[i])
		dropThumbnail(s.opts.cache, s.opts.logger, docs[i].ID)
		publish(ctx, s.opts, events.DocumentPurged, &docs[i])
	}

	s.opts.logger.Info("workspace_deleted",
		"workspace_id", id,
		"documents_removed", len(docs),
	)
	return nil
}
