package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/youtools/youtools-backend/internal/models"
)

// VideoLister lists stored videos with their summaries.
type VideoLister interface {
	ListWithSummaries(ctx context.Context) ([]models.VideoWithSummary, error)
}

// VideosHandler handles GET /videos
func VideosHandler(lister VideoLister) fiber.Handler {
	return func(c *fiber.Ctx) error {
		videos, err := lister.ListWithSummaries(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(videos)
	}
}
