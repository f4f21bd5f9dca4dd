package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"palate-core/internal/domain/entity"
	"palate-core/internal/platform/logger"
	"palate-core/internal/usecase"
)

type searchRequest struct {
	Query       string             `json:"query"`
	UserProfile entity.UserProfile `json:"user_profile"`
}

type tipRequest struct {
	UserProfile entity.UserProfile `json:"user_profile"`
}

type SearchHandler struct {
	search *usecase.SearchOrchestrator
	tips   *usecase.TipEngine
	log    *logger.Logger
}

func NewSearchHandler(search *usecase.SearchOrchestrator, tips *usecase.TipEngine, log *logger.Logger) *SearchHandler {
	return &SearchHandler{search: search, tips: tips, log: log.With("component", "api")}
}

func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query must not be empty"})
	}

	resp, err := h.search.Search(c.Context(), req.Query, req.UserProfile)
	if err != nil {
		// Internal detail (prompts, upstream errors) stays in the logs.
		h.log.Error("search failed", "request_id", RequestID(c), "query", req.Query, "error", err)
		if errors.Is(err, entity.ErrUnsafeQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query was not recognized as a food"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "food analysis failed"})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *SearchHandler) HandleTip(c *fiber.Ctx) error {
	var req tipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	tip, err := h.tips.DailyTip(c.Context(), req.UserProfile)
	if err != nil {
		h.log.Error("tip generation failed", "request_id", RequestID(c), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "tip generation failed"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"tip": tip})
}
