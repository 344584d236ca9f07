package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	Success   bool          `json:"success"`
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		Success:   false,
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

type errorMapping struct {
	kind     error
	status   int
	code     string
	fallback string
}

var serviceErrors = []errorMapping{
	{service.ErrValidation, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request"},
	{service.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required"},
	{service.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "access denied"},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "resource not found"},
	{service.ErrPreconditionFailed, fiber.StatusConflict, "PRECONDITION_FAILED", "precondition failed"},
	{service.ErrIO, fiber.StatusInternalServerError, "IO_ERROR", "failed to access file"},
}

// writeServiceError maps a service error kind to its HTTP status and code.
// Unknown errors become 500 INTERNAL_ERROR.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range serviceErrors {
		if errors.Is(err, m.kind) {
			msg := service.PublicMessage(err)
			if msg == "" {
				msg = m.fallback
			}
			return writeError(c, m.status, m.code, msg)
		}
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMITED", "too many requests")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
