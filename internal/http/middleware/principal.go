package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	// DefaultPrincipalHeader carries the authenticated caller set by the upstream gateway.
	DefaultPrincipalHeader = "X-Principal-ID"
	// PrincipalLocalKey stores the principal in Fiber's context locals.
	PrincipalLocalKey = "principal"
)

// Principal requires an authenticated principal in header and stores it under
// PrincipalLocalKey. Requests without one fail with 401.
// The stored value is a copy: it outlives the request as record owner and rate limit key.
func Principal(header string) fiber.Handler {
	if header == "" {
		header = DefaultPrincipalHeader
	}
	return func(c *fiber.Ctx) error {
		p := utils.CopyString(strings.TrimSpace(c.Get(header)))
		if p == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		c.Locals(PrincipalLocalKey, p)
		return c.Next()
	}
}

// PrincipalFrom returns the principal stored by Principal, or "".
func PrincipalFrom(c *fiber.Ctx) string {
	p, _ := c.Locals(PrincipalLocalKey).(string)
	return p
}
