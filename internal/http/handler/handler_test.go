package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
	serviceMocks "docvault/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testPrincipal = "user-1"

type testApp struct {
	app  *fiber.App
	docs *serviceMocks.MockDocumentService
	ws   *serviceMocks.MockWorkspaceService
}

func newTestApp(t *testing.T, limiter *middleware.RateLimiter) *testApp {
	t.Helper()
	ta := &testApp{
		app:  fiber.New(fiber.Config{ErrorHandler: ErrorHandler()}),
		docs: new(serviceMocks.MockDocumentService),
		ws:   new(serviceMocks.MockWorkspaceService),
	}
	ta.app.Use(middleware.RequestID())
	RegisterRoutes(ta.app, Deps{
		Documents:   ta.docs,
		Workspaces:  ta.ws,
		RateLimiter: limiter,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "# metrics\n")
		}),
	})
	t.Cleanup(func() {
		ta.docs.AssertExpectations(t)
		ta.ws.AssertExpectations(t)
	})
	return ta
}

func (ta *testApp) do(t *testing.T, method, target string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(middleware.DefaultPrincipalHeader, testPrincipal)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type listBody struct {
	Success   bool                     `json:"success"`
	Count     int                      `json:"count"`
	Documents []map[string]interface{} `json:"documents"`
}

func sampleDoc(id string) model.Document {
	return model.Document{
		ID:          id,
		WorkspaceID: "ws-1",
		OwnerID:     testPrincipal,
		Name:        "report.pdf",
		MimeType:    "application/pdf",
		StoragePath: "documents/" + id + ".pdf",
		Size:        5,
		UploadedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "healthy", decode[map[string]string](t, resp)["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.False(t, body.Success)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})

	t.Run("no database", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(nil))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouting(t *testing.T) {
	ta := newTestApp(t, nil)

	t.Run("not found route", func(t *testing.T) {
		resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := ta.app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("missing principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/documents/deleted/all", nil)
		resp, err := ta.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decode[errorPayload](t, resp)
		assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		b, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(b), "# metrics")
	})

	t.Run("swagger ui", func(t *testing.T) {
		resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		b, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(b), "swagger-ui")
		assert.Contains(t, string(b), "openapi.yaml")
	})

	t.Run("docs page", func(t *testing.T) {
		resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	})
}

func multipartUpload(t *testing.T, workspaceID string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if withFile {
		part, err := w.CreateFormFile("file", "test.txt")
		require.NoError(t, err)
		_, _ = part.Write([]byte("hello world"))
	}
	if workspaceID != "" {
		require.NoError(t, w.WriteField("workspaceId", workspaceID))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		doc := sampleDoc(id)

		ta.ws.On("Get", mock.Anything, "ws-1", testPrincipal).
			Return(&model.Workspace{ID: "ws-1", OwnerID: testPrincipal}, nil).Once()
		ta.docs.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.WorkspaceID == "ws-1" && in.Principal == testPrincipal &&
				in.Filename == "test.txt" && in.Size == 11 && in.Content != nil
		})).Return(&doc, nil).Once()

		body, ct := multipartUpload(t, "ws-1", true)
		resp := ta.do(t, http.MethodPost, "/api/documents/upload", body, ct)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		got := decode[map[string]interface{}](t, resp)
		document := got["document"].(map[string]interface{})
		assert.Equal(t, id, document["id"])
		assert.NotContains(t, document, "storage_path")
	})

	t.Run("no file", func(t *testing.T) {
		ta := newTestApp(t, nil)
		body, ct := multipartUpload(t, "ws-1", false)
		resp := ta.do(t, http.MethodPost, "/api/documents/upload", body, ct)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("missing workspace", func(t *testing.T) {
		ta := newTestApp(t, nil)
		body, ct := multipartUpload(t, "", true)
		resp := ta.do(t, http.MethodPost, "/api/documents/upload", body, ct)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("workspace not owned", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.ws.On("Get", mock.Anything, "ws-2", testPrincipal).
			Return(nil, &service.Error{Kind: service.ErrNotFound, Message: "workspace not found"}).Once()

		body, ct := multipartUpload(t, "ws-2", true)
		resp := ta.do(t, http.MethodPost, "/api/documents/upload", body, ct)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		res := decode[errorPayload](t, resp)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		assert.Equal(t, "workspace not found", res.Error.Message)
		ta.docs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.ws.On("Get", mock.Anything, "ws-1", testPrincipal).Return(&model.Workspace{ID: "ws-1"}, nil).Once()
		ta.docs.On("Upload", mock.Anything, mock.Anything).
			Return(nil, &service.Error{Kind: service.ErrIO, Message: "failed to store file", Err: errors.New("disk full")}).Once()

		body, ct := multipartUpload(t, "ws-1", true)
		resp := ta.do(t, http.MethodPost, "/api/documents/upload", body, ct)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		res := decode[errorPayload](t, resp)
		assert.Equal(t, "IO_ERROR", res.Error.Code)
		assert.NotContains(t, res.Error.Message, "disk full")
	})
}

func TestDocumentMetadata(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		meta := sampleDoc(id).Metadata()
		ta.docs.On("GetMetadata", mock.Anything, id, testPrincipal).Return(&meta, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/"+id+"/metadata", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[map[string]interface{}](t, resp)
		assert.Equal(t, true, got["success"])
		assert.Equal(t, "report.pdf", got["document"].(map[string]interface{})["name"])
	})

	t.Run("invalid id", func(t *testing.T) {
		ta := newTestApp(t, nil)
		resp := ta.do(t, http.MethodGet, "/api/documents/not-a-uuid/metadata", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		ta.docs.On("GetMetadata", mock.Anything, id, testPrincipal).
			Return(nil, &service.Error{Kind: service.ErrForbidden, Message: "not authorized to access this document"}).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/"+id+"/metadata", nil, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decode[errorPayload](t, resp).Error.Code)
	})

	t.Run("rename", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		doc := sampleDoc(id)
		doc.Name = "renamed.pdf"
		ta.docs.On("UpdateMetadata", mock.Anything, id, testPrincipal, "renamed.pdf").Return(&doc, nil).Once()

		resp := ta.do(t, http.MethodPut, "/api/documents/"+id+"/metadata",
			strings.NewReader(`{"name":"renamed.pdf"}`), fiber.MIMEApplicationJSON)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[map[string]interface{}](t, resp)
		assert.Equal(t, "renamed.pdf", got["document"].(map[string]interface{})["name"])
	})

	t.Run("rename bad body", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		resp := ta.do(t, http.MethodPut, "/api/documents/"+id+"/metadata",
			strings.NewReader(`{"name":`), fiber.MIMEApplicationJSON)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decode[errorPayload](t, resp).Error.Code)
	})
}

func TestLifecycleEndpoints(t *testing.T) {
	t.Run("soft delete", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		doc := sampleDoc(id)
		doc.IsDeleted = true
		ta.docs.On("SoftDelete", mock.Anything, id, testPrincipal).Return(&doc, nil).Once()

		resp := ta.do(t, http.MethodPut, "/api/documents/"+id+"/soft-delete", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[map[string]interface{}](t, resp)
		assert.Equal(t, true, got["document"].(map[string]interface{})["is_deleted"])
	})

	t.Run("restore not deleted", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		ta.docs.On("Restore", mock.Anything, id, testPrincipal).
			Return(nil, &service.Error{Kind: service.ErrNotFound, Message: "document not found or not deleted"}).Once()

		resp := ta.do(t, http.MethodPut, "/api/documents/"+id+"/restore", nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "document not found or not deleted", decode[errorPayload](t, resp).Error.Message)
	})

	t.Run("permanent delete", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		ta.docs.On("PermanentlyDelete", mock.Anything, id, testPrincipal).Return(nil).Once()

		resp := ta.do(t, http.MethodDelete, "/api/documents/"+id+"/permanent-delete", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Document permanently deleted", decode[map[string]interface{}](t, resp)["message"])
	})

	t.Run("permanent delete of active document", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		ta.docs.On("PermanentlyDelete", mock.Anything, id, testPrincipal).
			Return(&service.Error{Kind: service.ErrPreconditionFailed, Message: "document must be soft-deleted before permanent deletion"}).Once()

		resp := ta.do(t, http.MethodDelete, "/api/documents/"+id+"/permanent-delete", nil, "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "PRECONDITION_FAILED", decode[errorPayload](t, resp).Error.Code)
	})
}

func TestListingEndpoints(t *testing.T) {
	docs := []model.Document{sampleDoc(uuid.NewString()), sampleDoc(uuid.NewString())}

	t.Run("deleted", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.docs.On("ListDeleted", mock.Anything, testPrincipal).Return(docs, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/deleted/all", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[listBody](t, resp)
		assert.Equal(t, 2, body.Count)
		for _, d := range body.Documents {
			assert.NotContains(t, d, "storage_path")
		}
	})

	t.Run("workspace with filters", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.docs.On("ListByWorkspace", mock.Anything, "ws-1", testPrincipal, service.ListFilters{Type: "pdf", Sort: "sizeDesc"}).
			Return(docs[:1], nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/workspace/ws-1?type=pdf&sort=sizeDesc", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, decode[listBody](t, resp).Count)
	})

	t.Run("empty list encodes as array", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.docs.On("ListByWorkspace", mock.Anything, "ws-9", testPrincipal, service.ListFilters{}).
			Return([]model.Document{}, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/workspace/ws-9", nil, "")
		b, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(b), `"documents":[]`)
	})

	t.Run("search", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.docs.On("Search", mock.Anything, "ws-1", "rep").Return(docs, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/search?workspaceId=ws-1&query=rep", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 2, decode[listBody](t, resp).Count)
	})

	t.Run("search without query", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.docs.On("Search", mock.Anything, "ws-1", "").
			Return(nil, &service.Error{Kind: service.ErrValidation, Message: "query is required"}).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/search?workspaceId=ws-1", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "query is required", decode[errorPayload](t, resp).Error.Message)
	})
}

func TestDownloadDocument(t *testing.T) {
	t.Run("streams attachment", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		ta.docs.On("PrepareDownload", mock.Anything, id, testPrincipal).Return(&service.Download{
			Document: sampleDoc(id),
			Content:  io.NopCloser(strings.NewReader("hello")),
			Size:     5,
		}, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/"+id+"/download", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Equal(t, `attachment; filename="report.pdf"`, resp.Header.Get("Content-Disposition"))
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "hello", string(b))
	})

	t.Run("bytes missing", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		ta.docs.On("PrepareDownload", mock.Anything, id, testPrincipal).
			Return(nil, &service.Error{Kind: service.ErrNotFound, Message: "file not found"}).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/"+id+"/download", nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "file not found", decode[errorPayload](t, resp).Error.Message)
	})
}

func TestViewAndPreview(t *testing.T) {
	t.Run("view", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		ta.docs.On("PrepareView", mock.Anything, id, testPrincipal).Return(&service.View{
			Document: sampleDoc(id).Metadata(),
			DataURI:  "data:application/pdf;base64,aGVsbG8=",
		}, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/"+id+"/view", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[map[string]interface{}](t, resp)
		assert.Equal(t, "data:application/pdf;base64,aGVsbG8=", got["data_uri"])
	})

	t.Run("preview", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		ta.docs.On("PreparePreview", mock.Anything, id, testPrincipal).
			Return(&service.Preview{DocumentID: id, DataURI: "data:image/png;base64,AAAA"}, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/"+id+"/preview", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "data:image/png;base64,AAAA", decode[map[string]interface{}](t, resp)["preview"])
	})

	t.Run("preview for non-image", func(t *testing.T) {
		ta := newTestApp(t, nil)
		id := uuid.NewString()
		ta.docs.On("PreparePreview", mock.Anything, id, testPrincipal).Return(nil, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/documents/"+id+"/preview", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[map[string]interface{}](t, resp)
		assert.Contains(t, got, "preview")
		assert.Nil(t, got["preview"])
		assert.NotEmpty(t, got["message"])
	})

	t.Run("rate limited", func(t *testing.T) {
		ta := newTestApp(t, middleware.NewRateLimiter(0.01, 1))
		id := uuid.NewString()
		ta.docs.On("PreparePreview", mock.Anything, id, testPrincipal).Return(nil, nil).Once()

		first := ta.do(t, http.MethodGet, "/api/documents/"+id+"/preview", nil, "")
		assert.Equal(t, http.StatusOK, first.StatusCode)

		second := ta.do(t, http.MethodGet, "/api/documents/"+id+"/preview", nil, "")
		assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
		assert.NotEmpty(t, second.Header.Get("Retry-After"))
		assert.Equal(t, "RATE_LIMITED", decode[errorPayload](t, second).Error.Code)
	})
}

func TestWorkspaceEndpoints(t *testing.T) {
	ws := &model.Workspace{ID: "ws-1", OwnerID: testPrincipal, Name: "Taxes"}

	t.Run("create", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.ws.On("Create", mock.Anything, testPrincipal, "Taxes").Return(ws, nil).Once()

		resp := ta.do(t, http.MethodPost, "/api/workspaces", strings.NewReader(`{"name":"Taxes"}`), fiber.MIMEApplicationJSON)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		got := decode[map[string]interface{}](t, resp)
		assert.Equal(t, "ws-1", got["workspace"].(map[string]interface{})["id"])
	})

	t.Run("create blank name", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.ws.On("Create", mock.Anything, testPrincipal, "").
			Return(nil, &service.Error{Kind: service.ErrValidation, Message: "workspace name is required"}).Once()

		resp := ta.do(t, http.MethodPost, "/api/workspaces", strings.NewReader(`{}`), fiber.MIMEApplicationJSON)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.ws.On("ListByOwner", mock.Anything, testPrincipal).Return([]model.Workspace{*ws}, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/workspaces", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 1, decode[map[string]interface{}](t, resp)["count"])
	})

	t.Run("get", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.ws.On("Get", mock.Anything, "ws-1", testPrincipal).Return(ws, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/workspaces/ws-1", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		ta := newTestApp(t, nil)
		renamed := *ws
		renamed.Name = "Taxes 2026"
		ta.ws.On("Update", mock.Anything, "ws-1", testPrincipal, "Taxes 2026").Return(&renamed, nil).Once()

		resp := ta.do(t, http.MethodPut, "/api/workspaces/ws-1", strings.NewReader(`{"name":"Taxes 2026"}`), fiber.MIMEApplicationJSON)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.ws.On("Delete", mock.Anything, "ws-1", testPrincipal).Return(nil).Once()

		resp := ta.do(t, http.MethodDelete, "/api/workspaces/ws-1", nil, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Workspace deleted", decode[map[string]interface{}](t, resp)["message"])
	})

	t.Run("delete unknown error", func(t *testing.T) {
		ta := newTestApp(t, nil)
		ta.ws.On("Delete", mock.Anything, "ws-1", testPrincipal).Return(fmt.Errorf("boom")).Once()

		resp := ta.do(t, http.MethodDelete, "/api/workspaces/ws-1", nil, "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decode[errorPayload](t, resp).Error.Code)
	})
}
