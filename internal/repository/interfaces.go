package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/youtools/youtools-backend/internal/models"
)

// VideoRepository defines video storage operations
type VideoRepository interface {
	// GetByExternalID returns nil, nil when the video is unknown.
	GetByExternalID(ctx context.Context, videoID string) (*models.Video, error)
	// Create inserts the video unless one with the same external id exists,
	// and returns the stored row either way.
	Create(ctx context.Context, video *models.Video) (*models.Video, error)
	List(ctx context.Context) ([]models.Video, error)
}

// SummaryRepository defines summary storage operations
type SummaryRepository interface {
	// GetLatestByVideo returns nil, nil when the video has no summary.
	GetLatestByVideo(ctx context.Context, videoID uuid.UUID) (*models.Summary, error)
	Create(ctx context.Context, summary *models.Summary) error
	// ListByVideos returns summaries of the given videos, newest first.
	ListByVideos(ctx context.Context, videoIDs []uuid.UUID) ([]models.Summary, error)
	DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)
}
