package repository

import (
	"context"

	"docvault/internal/model"
)

// DocumentRepository defines data access for document records.
// No business logic here: strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored record.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindOne returns the first document matching f or ErrNotFound.
	FindOne(ctx context.Context, f DocumentFilter) (*model.Document, error)

	// FindMany returns every document matching f in the given order.
	FindMany(ctx context.Context, f DocumentFilter, sort DocumentSort) ([]model.Document, error)

	// Update applies p to the single document matching f and returns the updated record.
	// Matching and updating happen in one statement; ErrNotFound if nothing matched.
	Update(ctx context.Context, f DocumentFilter, p DocumentPatch) (*model.Document, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// DeleteMany removes every document matching f and returns the removed records.
	DeleteMany(ctx context.Context, f DocumentFilter) ([]model.Document, error)
}

// DocumentFilter is a conjunction of equality predicates plus an optional pattern.
// Zero-valued fields do not constrain the match.
type DocumentFilter struct {
	ID          string
	WorkspaceID string
	OwnerID     string
	IsDeleted   *bool
	// MimeType is an exact match.
	MimeType string
	// Pattern is a case-insensitive substring matched against Name OR MimeType.
	Pattern string
}

// DocumentPatch lists the mutable fields of a document. Nil fields are left untouched.
type DocumentPatch struct {
	Name      *string
	IsDeleted *bool
}

// Empty reports whether the patch changes nothing.
func (p DocumentPatch) Empty() bool {
	return p.Name == nil && p.IsDeleted == nil
}

// DocumentSort selects exactly one ordering key.
type DocumentSort int

const (
	// SortRecent orders by upload time, newest first.
	SortRecent DocumentSort = iota
	SortOldest
	SortSizeAsc
	SortSizeDesc
)

// String returns the wire token for the sort.
func (s DocumentSort) String() string {
	switch s {
	case SortOldest:
		return "oldest"
	case SortSizeAsc:
		return "sizeAsc"
	case SortSizeDesc:
		return "sizeDesc"
	default:
		return "recent"
	}
}

// ParseDocumentSort maps a wire token to a DocumentSort, defaulting to SortRecent.
func ParseDocumentSort(token string) DocumentSort {
	switch token {
	case "oldest":
		return SortOldest
	case "sizeAsc":
		return SortSizeAsc
	case "sizeDesc":
		return SortSizeDesc
	default:
		return SortRecent
	}
}
