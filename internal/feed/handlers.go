package feed

import (
	"errors"
	"strings"

	"backend-trollfeed/internal/genai"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/posts", func(c *fiber.Ctx) error {
		posts, err := svc.List(c.Context(), splitIDs(c.Query("include")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(posts)
	})

	r.Post("/troll", func(c *fiber.Ctx) error {
		var req SubmitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		result, err := svc.Submit(c.Context(), c.IP(), req)
		if err != nil {
			return translateError(err)
		}
		return c.JSON(result)
	})

	r.Post("/troll/rebut", func(c *fiber.Ctx) error {
		var req RebutRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		result, err := svc.Rebut(c.Context(), c.IP(), req)
		if err != nil {
			return translateError(err)
		}
		return c.JSON(result)
	})
}

func translateError(err error) error {
	var upstream *genai.UpstreamError
	switch {
	case errors.Is(err, ErrEmptySubmission), errors.Is(err, ErrEmptyRebuttal), errors.Is(err, genai.ErrInvalidImage):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrRateLimited):
		return fiber.NewError(fiber.StatusTooManyRequests, "too many requests, slow down and try again later")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.As(err, &upstream):
		return fiber.NewError(upstream.StatusCode, upstream.Message)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

func splitIDs(raw string) []string {
	ids := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
