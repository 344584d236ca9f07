package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const documentColumns = `id, workspace_id, owner_id, name, mime_type, storage_path, size, uploaded_at, is_deleted`

var documentOrder = map[repository.DocumentSort]string{
	repository.SortRecent:   "uploaded_at DESC, id DESC",
	repository.SortOldest:   "uploaded_at ASC, id ASC",
	repository.SortSizeAsc:  "size ASC, uploaded_at DESC",
	repository.SortSizeDesc: "size DESC, uploaded_at DESC",
}

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.WorkspaceID,
		doc.OwnerID,
		doc.Name,
		doc.MimeType,
		doc.StoragePath,
		doc.Size,
		doc.UploadedAt,
		doc.IsDeleted,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	return r.FindOne(ctx, repository.DocumentFilter{ID: id})
}

// FindOne fetches the first document matching f.
func (r *DocumentPostgres) FindOne(ctx context.Context, f repository.DocumentFilter) (*model.Document, error) {
	var w where
	w.document(f)
	q := `SELECT ` + documentColumns + ` FROM documents` + w.sql() + ` LIMIT 1`
	return scanDocument(r.db.QueryRowContext(ctx, q, w.args...))
}

// FindMany returns all documents matching f, ordered by sort.
func (r *DocumentPostgres) FindMany(ctx context.Context, f repository.DocumentFilter, sort repository.DocumentSort) ([]model.Document, error) {
	var w where
	w.document(f)
	order, ok := documentOrder[sort]
	if !ok {
		order = documentOrder[repository.SortRecent]
	}
	q := `SELECT ` + documentColumns + ` FROM documents` + w.sql() + ` ORDER BY ` + order
	return r.queryDocuments(ctx, q, w.args...)
}

func (r *DocumentPostgres) queryDocuments(ctx context.Context, q string, args ...any) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies p to one document matching f in a single statement.
func (r *DocumentPostgres) Update(ctx context.Context, f repository.DocumentFilter, p repository.DocumentPatch) (*model.Document, error) {
	if p.Empty() {
		return r.FindOne(ctx, f)
	}

	var w where
	var sets []string
	if p.Name != nil {
		sets = append(sets, w.param("name = $%d", *p.Name))
	}
	if p.IsDeleted != nil {
		sets = append(sets, w.param("is_deleted = $%d", *p.IsDeleted))
	}
	w.document(f)

	q := `UPDATE documents SET ` + strings.Join(sets, ", ") +
		` WHERE id IN (SELECT id FROM documents` + w.sql() + ` LIMIT 1)` +
		` RETURNING ` + documentColumns
	return scanDocument(r.db.QueryRowContext(ctx, q, w.args...))
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// DeleteMany removes every document matching f and returns the deleted rows
// from the same statement. An empty filter is refused.
func (r *DocumentPostgres) DeleteMany(ctx context.Context, f repository.DocumentFilter) ([]model.Document, error) {
	var w where
	w.document(f)
	if len(w.clauses) == 0 {
		return nil, fmt.Errorf("delete many: refusing unfiltered delete")
	}
	q := `DELETE FROM documents` + w.sql() + ` RETURNING ` + documentColumns
	return r.queryDocuments(ctx, q, w.args...)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.WorkspaceID,
		&d.OwnerID,
		&d.Name,
		&d.MimeType,
		&d.StoragePath,
		&d.Size,
		&d.UploadedAt,
		&d.IsDeleted,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
