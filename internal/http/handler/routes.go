package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// Deps carries everything RegisterRoutes wires into handlers.
type Deps struct {
	// DB is pinged by /health. Leave nil for the in-memory record store.
	DB         Pinger
	Documents  service.DocumentService
	Workspaces service.WorkspaceService
	// PrincipalHeader defaults to middleware.DefaultPrincipalHeader.
	PrincipalHeader string
	// RateLimiter throttles view and preview. Nil disables throttling.
	RateLimiter *middleware.RateLimiter
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// OpenAPIPath is the file served at /openapi.yaml.
	OpenAPIPath string
}

const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>docvault API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Everything under /api requires a principal.
func RegisterRoutes(app *fiber.App, d Deps) {
	openapi := d.OpenAPIPath
	if openapi == "" {
		openapi = "openapi.yaml"
	}
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile(openapi)
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Type("html").SendString(docsPage)
	})
	// Bundled Swagger UI, pointed at the same document instead of a generated one.
	app.Get("/swagger/*", swagger.New(swagger.Config{
		Title: "docvault API",
		URL:   "/openapi.yaml",
	}))

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics))
	}

	throttle := func(c *fiber.Ctx) error { return c.Next() }
	if d.RateLimiter != nil {
		throttle = d.RateLimiter.Handler()
	}

	api := app.Group("/api", middleware.Principal(d.PrincipalHeader))

	ws := api.Group("/workspaces")
	ws.Post("/", CreateWorkspace(d.Workspaces))
	ws.Get("/", ListWorkspaces(d.Workspaces))
	ws.Get("/:id", GetWorkspace(d.Workspaces))
	ws.Put("/:id", UpdateWorkspace(d.Workspaces))
	ws.Delete("/:id", DeleteWorkspace(d.Workspaces))

	docs := api.Group("/documents")
	docs.Post("/upload", UploadDocument(d.Documents, d.Workspaces))
	docs.Get("/search", SearchDocuments(d.Documents))
	docs.Get("/deleted/all", ListDeletedDocuments(d.Documents))
	docs.Get("/workspace/:workspaceId", ListWorkspaceDocuments(d.Documents))
	docs.Get("/:id/metadata", GetDocumentMetadata(d.Documents))
	docs.Put("/:id/metadata", UpdateDocumentMetadata(d.Documents))
	docs.Put("/:id/soft-delete", SoftDeleteDocument(d.Documents))
	docs.Put("/:id/restore", RestoreDocument(d.Documents))
	docs.Delete("/:id/permanent-delete", PermanentlyDeleteDocument(d.Documents))
	docs.Get("/:id/download", DownloadDocument(d.Documents))
	docs.Get("/:id/view", throttle, ViewDocument(d.Documents))
	docs.Get("/:id/preview", throttle, PreviewDocument(d.Documents))
}
