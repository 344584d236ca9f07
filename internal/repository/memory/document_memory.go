package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// DocumentStore keeps document records in process memory.
// It is safe for concurrent use; every operation holds the lock for its whole duration.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]model.Document
}

// NewDocumentStore returns an empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]model.Document)}
}

var _ repository.DocumentRepository = (*DocumentStore)(nil)

func (s *DocumentStore) Create(_ context.Context, doc *model.Document) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[doc.ID]; exists {
		return nil, fmt.Errorf("document %s already exists", doc.ID)
	}
	s.docs[doc.ID] = *doc
	out := *doc
	return &out, nil
}

func (s *DocumentStore) FindByID(ctx context.Context, id string) (*model.Document, error) {
	return s.FindOne(ctx, repository.DocumentFilter{ID: id})
}

func (s *DocumentStore) FindOne(_ context.Context, f repository.DocumentFilter) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.findLocked(f)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (s *DocumentStore) FindMany(_ context.Context, f repository.DocumentFilter, order repository.DocumentSort) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.Document, 0)
	for _, d := range s.docs {
		if matches(d, f) {
			items = append(items, d)
		}
	}
	sortDocuments(items, order)
	return items, nil
}

func (s *DocumentStore) Update(_ context.Context, f repository.DocumentFilter, p repository.DocumentPatch) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.findLocked(f)
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.IsDeleted != nil {
		d.IsDeleted = *p.IsDeleted
	}
	s.docs[d.ID] = d
	return &d, nil
}

func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, id)
	return nil
}

func (s *DocumentStore) DeleteMany(_ context.Context, f repository.DocumentFilter) ([]model.Document, error) {
	if f == (repository.DocumentFilter{}) {
		return nil, fmt.Errorf("delete many: refusing unfiltered delete")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make([]model.Document, 0)
	for id, d := range s.docs {
		if matches(d, f) {
			delete(s.docs, id)
			removed = append(removed, d)
		}
	}
	sortDocuments(removed, repository.SortOldest)
	return removed, nil
}

// findLocked picks the oldest matching record so that FindOne is deterministic.
func (s *DocumentStore) findLocked(f repository.DocumentFilter) (model.Document, bool) {
	if f.ID != "" {
		d, ok := s.docs[f.ID]
		if !ok || !matches(d, f) {
			return model.Document{}, false
		}
		return d, true
	}

	var (
		best  model.Document
		found bool
	)
	for _, d := range s.docs {
		if !matches(d, f) {
			continue
		}
		if !found || d.UploadedAt.Before(best.UploadedAt) || (d.UploadedAt.Equal(best.UploadedAt) && d.ID < best.ID) {
			best, found = d, true
		}
	}
	return best, found
}

func matches(d model.Document, f repository.DocumentFilter) bool {
	if f.ID != "" && d.ID != f.ID {
		return false
	}
	if f.WorkspaceID != "" && d.WorkspaceID != f.WorkspaceID {
		return false
	}
	if f.OwnerID != "" && d.OwnerID != f.OwnerID {
		return false
	}
	if f.IsDeleted != nil && d.IsDeleted != *f.IsDeleted {
		return false
	}
	if f.MimeType != "" && d.MimeType != f.MimeType {
		return false
	}
	if f.Pattern != "" {
		p := strings.ToLower(f.Pattern)
		if !strings.Contains(strings.ToLower(d.Name), p) && !strings.Contains(strings.ToLower(d.MimeType), p) {
			return false
		}
	}
	return true
}

func sortDocuments(items []model.Document, order repository.DocumentSort) {
	newestFirst := func(a, b model.Document) bool {
		if !a.UploadedAt.Equal(b.UploadedAt) {
			return a.UploadedAt.After(b.UploadedAt)
		}
		return a.ID > b.ID
	}

	var less func(i, j int) bool
	switch order {
	case repository.SortOldest:
		less = func(i, j int) bool { return newestFirst(items[j], items[i]) }
	case repository.SortSizeAsc:
		less = func(i, j int) bool {
			if items[i].Size != items[j].Size {
				return items[i].Size < items[j].Size
			}
			return newestFirst(items[i], items[j])
		}
	case repository.SortSizeDesc:
		less = func(i, j int) bool {
			if items[i].Size != items[j].Size {
				return items[i].Size > items[j].Size
			}
			return newestFirst(items[i], items[j])
		}
	default:
		less = func(i, j int) bool { return newestFirst(items[i], items[j]) }
	}
	sort.SliceStable(items, less)
}
