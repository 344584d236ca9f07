package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/service"
)

type workspaceRequest struct {
	Name string `json:"name"`
}

func CreateWorkspace(workspaces service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req workspaceRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		ws, err := workspaces.Create(c.UserContext(), middleware.PrincipalFrom(c), req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "workspace": ws})
	}
}

func ListWorkspaces(workspaces service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := workspaces.ListByOwner(c.UserContext(), middleware.PrincipalFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "count": len(items), "workspaces": items})
	}
}

func GetWorkspace(workspaces service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws, err := workspaces.Get(c.UserContext(), c.Params("id"), middleware.PrincipalFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "workspace": ws})
	}
}

func UpdateWorkspace(workspaces service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req workspaceRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		ws, err := workspaces.Update(c.UserContext(), c.Params("id"), middleware.PrincipalFrom(c), req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "workspace": ws})
	}
}

// DeleteWorkspace removes the workspace and every document in it, including soft-deleted ones.
func DeleteWorkspace(workspaces service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := workspaces.Delete(c.UserContext(), c.Params("id"), middleware.PrincipalFrom(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Workspace deleted"})
	}
}
