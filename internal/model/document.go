package model

import "time"

// Document represents an uploaded file owned by a principal inside a workspace.
// This is a pure domain model with no database-specific dependencies or tags.
// Only IsDeleted and Name change after creation, and only through the record store's Update.
type Document struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	MimeType    string    `json:"mime_type"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	IsDeleted   bool      `json:"is_deleted"`
}

// DocumentMetadata is the caller-facing view of a Document. It never carries the storage path.
type DocumentMetadata struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	IsDeleted   bool      `json:"is_deleted"`
}

// Metadata strips the storage path.
func (d Document) Metadata() DocumentMetadata {
	return DocumentMetadata{
		ID:          d.ID,
		WorkspaceID: d.WorkspaceID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		MimeType:    d.MimeType,
		Size:        d.Size,
		UploadedAt:  d.UploadedAt,
		IsDeleted:   d.IsDeleted,
	}
}
