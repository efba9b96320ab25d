package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/youtools/youtools-backend/internal/api/middleware"
	"github.com/youtools/youtools-backend/internal/services"
)

// Summarizer produces or looks up a video summary.
type Summarizer interface {
	Summarize(ctx context.Context, req services.SummarizeRequest) (*services.SummarizeResult, error)
}

// SummaryHandler serves /summarize
type SummaryHandler struct {
	summarizer Summarizer
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summarizer Summarizer) *SummaryHandler {
	return &SummaryHandler{summarizer: summarizer}
}

// Summarize handles GET /summarize?video_id=&extension=&save=
func (h *SummaryHandler) Summarize(c *fiber.Ctx) error {
	result, err := h.summarizer.Summarize(c.UserContext(), services.SummarizeRequest{
		VideoID:  c.Query("video_id"),
		Identity: middleware.IdentityFrom(c),
		Persist:  c.Query("save") == "true",
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"title":   result.Title,
		"summary": result.Summary,
	})
}

// Preflight handles OPTIONS /summarize for the browser extension.
func (h *SummaryHandler) Preflight(c *fiber.Ctx) error {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, "POST, GET, OPTIONS")
	c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, Authorization")
	return c.SendStatus(fiber.StatusNoContent)
}
