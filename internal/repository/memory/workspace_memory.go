package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// WorkspaceStore keeps workspace records in process memory.
type WorkspaceStore struct {
	mu  sync.RWMutex
	wss map[string]model.Workspace
}

// NewWorkspaceStore returns an empty WorkspaceStore.
func NewWorkspaceStore() *WorkspaceStore {
	return &WorkspaceStore{wss: make(map[string]model.Workspace)}
}

var _ repository.WorkspaceRepository = (*WorkspaceStore)(nil)

func (s *WorkspaceStore) Create(_ context.Context, ws *model.Workspace) (*model.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.wss[ws.ID]; exists {
		return nil, fmt.Errorf("workspace %s already exists", ws.ID)
	}
	s.wss[ws.ID] = *ws
	out := *ws
	return &out, nil
}

func (s *WorkspaceStore) FindOwned(_ context.Context, id, ownerID string) (*model.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, ok := s.wss[id]
	if !ok || ws.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &ws, nil
}

func (s *WorkspaceStore) ListByOwner(_ context.Context, ownerID string) ([]model.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.Workspace, 0)
	for _, ws := range s.wss {
		if ws.OwnerID == ownerID {
			items = append(items, ws)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (s *WorkspaceStore) Rename(_ context.Context, id, name string) (*model.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.wss[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ws.Name = name
	s.wss[id] = ws
	return &ws, nil
}

func (s *WorkspaceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.wss, id)
	return nil
}
