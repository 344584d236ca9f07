package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"docvault/internal/events"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
	"docvault/internal/thumbnail"
)

var tracer = otel.Tracer("docvault/internal/service")

// typeFilters maps short extension tokens to their canonical MIME types.
var typeFilters = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"txt":  "text/plain",
}

// ResolveMimeType maps a type filter token to a MIME type.
// Unknown tokens are returned unchanged and match MIME types literally.
func ResolveMimeType(token string) string {
	if mt, ok := typeFilters[token]; ok {
		return mt
	}
	return token
}

// CreateInput describes a record for bytes that are already stored.
type CreateInput struct {
	WorkspaceID string
	Principal   string
	Name        string
	MimeType    string
	StoragePath string
	Size        int64
}

// UploadInput describes new content to store and register.
type UploadInput struct {
	WorkspaceID string
	Principal   string
	// Filename is the client's name for the file; only its extension reaches the storage key.
	Filename string
	MimeType string
	Size     int64
	Content  io.Reader
}

// ListFilters narrows ListByWorkspace. Type is a token such as "pdf" or a literal
// MIME type; Sort is one of recent, oldest, sizeAsc, sizeDesc.
type ListFilters struct {
	Type string
	Sort string
}

// Download is an open stream of a document's bytes. Callers must close Content.
type Download struct {
	Document model.Document
	Content  io.ReadCloser
	Size     int64
}

// View is a document's full content as a data URI.
type View struct {
	Document model.DocumentMetadata
	DataURI  string
}

// Preview is a thumbnail as a data URI.
type Preview struct {
	DocumentID string
	DataURI    string
}

// DocumentService owns the document lifecycle: soft delete, restore, purge,
// and the read paths gated on ownership.
type DocumentService interface {
	// Upload stores the content under a generated key, then creates its record.
	// The stored bytes are removed again if the record cannot be saved.
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)
	// Create registers already-stored bytes as an active document owned by in.Principal.
	Create(ctx context.Context, in CreateInput) (*model.Document, error)
	GetMetadata(ctx context.Context, id, principal string) (*model.DocumentMetadata, error)
	UpdateMetadata(ctx context.Context, id, principal, name string) (*model.Document, error)
	SoftDelete(ctx context.Context, id, principal string) (*model.Document, error)
	// Restore only matches soft-deleted documents owned by principal.
	Restore(ctx context.Context, id, principal string) (*model.Document, error)
	// PermanentlyDelete removes bytes, then the record. The document must be soft-deleted.
	PermanentlyDelete(ctx context.Context, id, principal string) error
	ListDeleted(ctx context.Context, principal string) ([]model.Document, error)
	ListByWorkspace(ctx context.Context, workspaceID, principal string, f ListFilters) ([]model.Document, error)
	// Search matches query against name or MIME type within a workspace.
	// It does not filter by owner.
	Search(ctx context.Context, workspaceID, query string) ([]model.Document, error)
	PrepareDownload(ctx context.Context, id, principal string) (*Download, error)
	PrepareView(ctx context.Context, id, principal string) (*View, error)
	// PreparePreview returns nil without error when the document is not an image.
	PreparePreview(ctx context.Context, id, principal string) (*Preview, error)
}

type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
	opts  options
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, opts ...Option) DocumentService {
	return &documentService{store: store, repo: repo, opts: buildOptions(opts)}
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	if err := requirePrincipal(in.Principal); err != nil {
		return nil, err
	}
	if err := requireField(in.WorkspaceID, "workspace id"); err != nil {
		return nil, err
	}
	if in.Content == nil {
		return nil, newError(ErrValidation, "file is required")
	}

	key := StorageKey(in.Filename)
	info, err := s.store.Put(ctx, key, in.Content, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.MimeType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, wrapError(ErrIO, "upload to storage failed", err)
	}

	size := info.Size
	if size <= 0 {
		size = in.Size
	}
	doc, err := s.Create(ctx, CreateInput{
		WorkspaceID: in.WorkspaceID,
		Principal:   in.Principal,
		Name:        in.Filename,
		MimeType:    in.MimeType,
		StoragePath: key,
		Size:        size,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %w; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return doc, nil
}

// StorageKey returns a fresh byte-store key keeping the file's extension.
func StorageKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return "documents/" + uuid.New().String() + ext
}

func (s *documentService) Create(ctx context.Context, in CreateInput) (*model.Document, error) {
	if err := requirePrincipal(in.Principal); err != nil {
		return nil, err
	}
	if err := requireField(in.WorkspaceID, "workspace id"); err != nil {
		return nil, err
	}
	if err := requireField(in.StoragePath, "storage path"); err != nil {
		return nil, err
	}

	doc, err := s.repo.Create(ctx, &model.Document{
		ID:          uuid.New().String(),
		WorkspaceID: in.WorkspaceID,
		OwnerID:     in.Principal,
		Name:        in.Name,
		MimeType:    in.MimeType,
		StoragePath: in.StoragePath,
		Size:        in.Size,
		UploadedAt:  s.opts.now(),
		IsDeleted:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	s.publish(ctx, events.DocumentCreated, doc)
	return doc, nil
}

func (s *documentService) GetMetadata(ctx context.Context, id, principal string) (*model.DocumentMetadata, error) {
	doc, err := s.load(ctx, id, principal)
	if err != nil {
		return nil, err
	}
	meta := doc.Metadata()
	return &meta, nil
}

func (s *documentService) UpdateMetadata(ctx context.Context, id, principal, name string) (*model.Document, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := requireField(name, "name"); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, id, principal); err != nil {
		return nil, err
	}

	doc, err := s.update(ctx, repository.DocumentFilter{ID: id}, repository.DocumentPatch{Name: &name}, "document not found")
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.DocumentUpdated, doc)
	return doc, nil
}

func (s *documentService) SoftDelete(ctx context.Context, id, principal string) (*model.Document, error) {
	if _, err := s.load(ctx, id, principal); err != nil {
		return nil, err
	}

	doc, err := s.update(ctx, repository.DocumentFilter{ID: id}, repository.DocumentPatch{IsDeleted: repository.Bool(true)}, "document not found")
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.DocumentSoftDeleted, doc)
	return doc, nil
}

func (s *documentService) Restore(ctx context.Context, id, principal string) (*model.Document, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := requireField(id, "id"); err != nil {
		return nil, err
	}

	doc, err := s.update(ctx,
		repository.DocumentFilter{ID: id, OwnerID: principal, IsDeleted: repository.Bool(true)},
		repository.DocumentPatch{IsDeleted: repository.Bool(false)},
		"document not found or not deleted",
	)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.DocumentRestored, doc)
	return doc, nil
}

func (s *documentService) PermanentlyDelete(ctx context.Context, id, principal string) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	if err := requireField(id, "id"); err != nil {
		return err
	}

	doc, err := s.repo.FindOne(ctx, repository.DocumentFilter{ID: id, OwnerID: principal})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "document not found")
		}
		return fmt.Errorf("find document: %w", err)
	}
	if !doc.IsDeleted {
		return newError(ErrPreconditionFailed, "document must be soft-deleted before permanent deletion")
	}

	purgeBytes(ctx, s.store, s.opts.logger, *doc)

	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	dropThumbnail(s.opts.cache, s.opts.logger, doc.ID)
	s.publish(ctx, events.DocumentPurged, doc)
	return nil
}

func (s *documentService) ListDeleted(ctx context.Context, principal string) ([]model.Document, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	docs, err := s.repo.FindMany(ctx, repository.DocumentFilter{
		OwnerID:   principal,
		IsDeleted: repository.Bool(true),
	}, repository.SortRecent)
	if err != nil {
		return nil, fmt.Errorf("list deleted documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) ListByWorkspace(ctx context.Context, workspaceID, principal string, f ListFilters) ([]model.Document, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := requireField(workspaceID, "workspace id"); err != nil {
		return nil, err
	}

	filter := repository.DocumentFilter{
		WorkspaceID: workspaceID,
		OwnerID:     principal,
		IsDeleted:   repository.Bool(false),
	}
	if f.Type != "" {
		filter.MimeType = ResolveMimeType(f.Type)
	}
	docs, err := s.repo.FindMany(ctx, filter, repository.ParseDocumentSort(f.Sort))
	if err != nil {
		return nil, fmt.Errorf("list workspace documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) Search(ctx context.Context, workspaceID, query string) ([]model.Document, error) {
	if err := requireField(workspaceID, "workspace id"); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if err := requireField(query, "search query"); err != nil {
		return nil, err
	}

	docs, err := s.repo.FindMany(ctx, repository.DocumentFilter{
		WorkspaceID: workspaceID,
		IsDeleted:   repository.Bool(false),
		Pattern:     query,
	}, repository.SortRecent)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) PrepareDownload(ctx context.Context, id, principal string) (*Download, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := requireField(id, "id"); err != nil {
		return nil, err
	}

	doc, err := s.repo.FindOne(ctx, repository.DocumentFilter{
		ID:        id,
		OwnerID:   principal,
		IsDeleted: repository.Bool(false),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "document not found")
		}
		return nil, fmt.Errorf("find document: %w", err)
	}

	rc, info, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, storageReadError(err)
	}
	size := info.Size
	if size <= 0 {
		size = doc.Size
	}
	return &Download{Document: *doc, Content: rc, Size: size}, nil
}

func (s *documentService) PrepareView(ctx context.Context, id, principal string) (*View, error) {
	doc, err := s.load(ctx, id, principal)
	if err != nil {
		return nil, err
	}

	raw, err := storage.ReadAll(ctx, s.store, doc.StoragePath)
	if err != nil {
		return nil, wrapError(ErrIO, "failed to read file", err)
	}
	return &View{Document: doc.Metadata(), DataURI: DataURI(doc.MimeType, raw)}, nil
}

func (s *documentService) PreparePreview(ctx context.Context, id, principal string) (*Preview, error) {
	doc, err := s.load(ctx, id, principal)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(doc.MimeType, "image/") {
		return nil, nil
	}

	if s.opts.cache != nil {
		if b, ok, err := s.opts.cache.Load(doc.ID); err != nil {
			s.opts.logger.Warn("thumbnail_cache_read_failed", "document_id", doc.ID, "error", err)
		} else if ok {
			return &Preview{DocumentID: doc.ID, DataURI: DataURI(doc.MimeType, b)}, nil
		}
	}

	raw, err := storage.ReadAll(ctx, s.store, doc.StoragePath)
	if err != nil {
		return nil, storageReadError(err)
	}

	thumb, err := s.derive(ctx, doc, raw)
	if err != nil {
		return nil, wrapError(ErrIO, "failed to generate preview", err)
	}

	if s.opts.cache != nil {
		if err := s.opts.cache.Store(doc.ID, thumb); err != nil {
			s.opts.logger.Warn("thumbnail_cache_write_failed", "document_id", doc.ID, "error", err)
		}
	}
	// The data URI keeps the declared type even when the derivative's encoding differs.
	return &Preview{DocumentID: doc.ID, DataURI: DataURI(doc.MimeType, thumb)}, nil
}

func (s *documentService) derive(ctx context.Context, doc *model.Document, raw []byte) ([]byte, error) {
	_, span := tracer.Start(ctx, "thumbnail.Derive")
	defer span.End()
	span.SetAttributes(
		attribute.String("document.id", doc.ID),
		attribute.String("document.mime_type", doc.MimeType),
		attribute.Int("image.input_bytes", len(raw)),
	)

	out, err := thumbnail.Derive(raw, doc.MimeType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("image.output_bytes", len(out)))
	return out, nil
}

// DataURI encodes b as data:<mime>;base64,<payload>.
func DataURI(mimeType string, b []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(b)
}

// load fetches a document by id and applies the ownership gate.
// A missing record wins over an ownership mismatch.
func (s *documentService) load(ctx context.Context, id, principal string) (*model.Document, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := requireField(id, "id"); err != nil {
		return nil, err
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "document not found")
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	if err := authorize(doc, principal); err != nil {
		return nil, err
	}
	return doc, nil
}

// authorize reports whether principal owns doc.
func authorize(doc *model.Document, principal string) error {
	if doc.OwnerID != principal {
		return newError(ErrForbidden, "not authorized to access this document")
	}
	return nil
}

func (s *documentService) update(ctx context.Context, f repository.DocumentFilter, p repository.DocumentPatch, notFoundMsg string) (*model.Document, error) {
	doc, err := s.repo.Update(ctx, f, p)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, notFoundMsg)
		}
		return nil, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

// purgeBytes removes a document's stored bytes. Failures are logged, never returned.
func purgeBytes(ctx context.Context, store storage.Storage, logger *slog.Logger, doc model.Document) {
	if err := store.Delete(ctx, doc.StoragePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		logger.Warn("document_bytes_delete_failed",
			"document_id", doc.ID,
			"storage_path", doc.StoragePath,
			"error", err,
		)
	}
}

func dropThumbnail(cache *thumbnail.Cache, logger *slog.Logger, id string) {
	if cache == nil {
		return
	}
	if err := cache.Remove(id); err != nil {
		logger.Warn("thumbnail_cache_remove_failed", "document_id", id, "error", err)
	}
}

func (s *documentService) publish(ctx context.Context, t events.Type, doc *model.Document) {
	publish(ctx, s.opts, t, doc)
}

// publish emits a lifecycle event. Failures are logged; the transition already happened.
func publish(ctx context.Context, o options, t events.Type, doc *model.Document) {
	err := o.events.Publish(ctx, events.Event{
		Type:        t,
		DocumentID:  doc.ID,
		WorkspaceID: doc.WorkspaceID,
		OwnerID:     doc.OwnerID,
		At:          o.now(),
	})
	if err != nil {
		o.logger.Warn("document_event_publish_failed", "type", string(t), "document_id", doc.ID, "error", err)
	}
}

func storageReadError(err error) error {
	if errors.Is(err, storage.ErrObjectNotFound) {
		return newError(ErrNotFound, "file not found")
	}
	return wrapError(ErrIO, "failed to read file", err)
}
