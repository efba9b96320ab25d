package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/youtools/youtools-backend/internal/transcript"
)

// IntervalSource returns aggregated transcript intervals.
type IntervalSource interface {
	Intervals(ctx context.Context, videoID string) ([]transcript.TimeInterval, error)
}

// TimestampsHandler handles GET /timestamps?video_id=
func TimestampsHandler(source IntervalSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		intervals, err := source.Intervals(c.UserContext(), c.Query("video_id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"intervals": intervals})
	}
}
