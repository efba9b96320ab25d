package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/youtools/youtools-backend/internal/apperr"
	"github.com/youtools/youtools-backend/internal/models"
	"github.com/youtools/youtools-backend/internal/repository"
)

// VideoService lists stored videos together with their summaries.
type VideoService struct {
	videos    repository.VideoRepository
	summaries repository.SummaryRepository
	logger    *logrus.Logger
}

// NewVideoService creates a new video service
func NewVideoService(videos repository.VideoRepository, summaries repository.SummaryRepository, logger *logrus.Logger) *VideoService {
	return &VideoService{videos: videos, summaries: summaries, logger: logger}
}

// ListWithSummaries returns every video with its latest summary. It fails
// with a not_found error when no video is stored.
func (s *VideoService) ListWithSummaries(ctx context.Context) ([]models.VideoWithSummary, error) {
	videos, err := s.videos.List(ctx)
	if err != nil {
		return nil, apperr.Persistence("list videos", err)
	}
	if len(videos) == 0 {
		return nil, apperr.NotFound("No videos found in the database", nil)
	}

	ids := make([]uuid.UUID, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}

	summaries, err := s.summaries.ListByVideos(ctx, ids)
	if err != nil {
		return nil, apperr.Persistence("list summaries", err)
	}

	// Summaries come newest first; keep the first seen per video.
	latest := make(map[uuid.UUID]models.Summary, len(summaries))
	for _, sum := range summaries {
		if _, seen := latest[sum.VideoID]; !seen {
			latest[sum.VideoID] = sum
		}
	}

	out := make([]models.VideoWithSummary, 0, len(videos))
	for _, v := range videos {
		row := models.VideoWithSummary{
			ID:      v.ID,
			VideoID: v.VideoID,
			Title:   v.Title,
		}
		if sum, ok := latest[v.ID]; ok {
			created := sum.CreatedAt.UTC().Format(time.RFC3339)
			row.Summary = sum.Content
			row.EndTime = created
			row.DatePosted = created
		}
		out = append(out, row)
	}

	s.logger.WithField("count", len(out)).Debug("Listed videos")
	return out, nil
}
