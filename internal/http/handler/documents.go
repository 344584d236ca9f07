package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
)

type renameRequest struct {
	Name string `json:"name"`
}

// metadataList strips storage paths before documents leave the service.
func metadataList(docs []model.Document) []model.DocumentMetadata {
	out := make([]model.DocumentMetadata, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Metadata())
	}
	return out
}

// documentID validates the :id route parameter.
func documentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

// UploadDocument accepts multipart/form-data with a "file" part and a "workspaceId" field.
// The workspace must belong to the caller.
func UploadDocument(docs service.DocumentService, workspaces service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := middleware.PrincipalFrom(c)

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "no file uploaded")
		}
		workspaceID := c.FormValue("workspaceId")
		if workspaceID == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "workspace ID is required")
		}
		if _, err := workspaces.Get(c.UserContext(), workspaceID, principal); err != nil {
			return writeServiceError(c, err)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docs.Upload(c.UserContext(), service.UploadInput{
			WorkspaceID: workspaceID,
			Principal:   principal,
			Filename:    fh.Filename,
			MimeType:    ct,
			Size:        fh.Size,
			Content:     f,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "document": doc.Metadata()})
	}
}

func GetDocumentMetadata(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		meta, err := docs.GetMetadata(c.UserContext(), id, middleware.PrincipalFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "document": meta})
	}
}

func UpdateDocumentMetadata(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		var req renameRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		doc, err := docs.UpdateMetadata(c.UserContext(), id, middleware.PrincipalFrom(c), req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":  true,
			"message":  "Document metadata updated successfully",
			"document": doc.Metadata(),
		})
	}
}

func SoftDeleteDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		doc, err := docs.SoftDelete(c.UserContext(), id, middleware.PrincipalFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":  true,
			"message":  "Document soft-deleted successfully",
			"document": doc.Metadata(),
		})
	}
}

func RestoreDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		doc, err := docs.Restore(c.UserContext(), id, middleware.PrincipalFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":  true,
			"message":  "Document restored successfully",
			"document": doc.Metadata(),
		})
	}
}

func PermanentlyDeleteDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		if err := docs.PermanentlyDelete(c.UserContext(), id, middleware.PrincipalFrom(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Document permanently deleted"})
	}
}

func ListDeletedDocuments(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := docs.ListDeleted(c.UserContext(), middleware.PrincipalFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "count": len(items), "documents": metadataList(items)})
	}
}

// ListWorkspaceDocuments supports ?type=<token|mime> and ?sort=recent|oldest|sizeAsc|sizeDesc.
func ListWorkspaceDocuments(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := docs.ListByWorkspace(c.UserContext(), c.Params("workspaceId"), middleware.PrincipalFrom(c), service.ListFilters{
			Type: c.Query("type"),
			Sort: c.Query("sort"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "count": len(items), "documents": metadataList(items)})
	}
}

// SearchDocuments expects ?workspaceId=...&query=....
func SearchDocuments(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := docs.Search(c.UserContext(), c.Query("workspaceId"), c.Query("query"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "count": len(items), "documents": metadataList(items)})
	}
}

// DownloadDocument streams the raw bytes as an attachment named after the document.
func DownloadDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		dl, err := docs.PrepareDownload(c.UserContext(), id, middleware.PrincipalFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Attachment(dl.Document.Name)
		c.Set(fiber.HeaderContentType, dl.Document.MimeType)
		// fasthttp closes the stream once the body is written.
		return c.SendStream(dl.Content, int(dl.Size))
	}
}

func ViewDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		v, err := docs.PrepareView(c.UserContext(), id, middleware.PrincipalFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "document": v.Document, "data_uri": v.DataURI})
	}
}

// PreviewDocument answers preview: null for documents that are not images.
func PreviewDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		p, err := docs.PreparePreview(c.UserContext(), id, middleware.PrincipalFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		if p == nil {
			return c.JSON(fiber.Map{"success": true, "preview": nil, "message": "Preview not available for this file type"})
		}
		return c.JSON(fiber.Map{"success": true, "preview": p.DataURI})
	}
}
