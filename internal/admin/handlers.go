package admin

import (
	"errors"
	"time"

	"backend-trollfeed/internal/feed"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, guard *Guard) {
	r.Post("/login", func(c *fiber.Ctx) error {
		var req struct {
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if !guard.Check(req.Password) {
			return fiber.NewError(fiber.StatusForbidden, "unauthorized")
		}
		token, err := guard.IssueToken()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"token":      token,
			"token_type": "Bearer",
			"expires_in": int64(tokenTTL / time.Second),
		})
	})

	requireAdmin := guard.Middleware()

	r.Get("/posts", requireAdmin, func(c *fiber.Ctx) error {
		status := c.Query("status", feed.StatusPending)
		if status != feed.StatusPending && status != feed.StatusApproved {
			return fiber.NewError(fiber.StatusBadRequest, "status must be pending or approved")
		}
		posts, err := svc.ListByStatus(c.Context(), status)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(posts)
	})

	r.Post("/moderate", requireAdmin, func(c *fiber.Ctx) error {
		var req struct {
			ID     string `json:"id"`
			Action string `json:"action"`
		}
		if err := c.BodyParser(&req); err != nil || req.ID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "id and action required")
		}
		if err := svc.Moderate(c.Context(), req.ID, req.Action); err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			case errors.Is(err, ErrBadAction):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		return c.JSON(fiber.Map{"success": true})
	})
}
