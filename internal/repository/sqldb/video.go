package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/youtools/youtools-backend/internal/models"
)

// VideoRepository implements repository.VideoRepository
type VideoRepository struct {
	db *sqlx.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// GetByExternalID retrieves a video by its YouTube id
func (r *VideoRepository) GetByExternalID(ctx context.Context, videoID string) (*models.Video, error) {
	var video models.Video
	query := r.db.Rebind(`SELECT id, video_id, title, created_at FROM videos WHERE video_id = ?`)

	err := r.db.GetContext(ctx, &video, query, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

// Create inserts a video; concurrent creators of the same video converge on one row.
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) (*models.Video, error) {
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO videos (id, video_id, title, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (video_id) DO NOTHING`)

	if _, err := r.db.ExecContext(ctx, query, video.ID, video.VideoID, video.Title, video.CreatedAt); err != nil {
		return nil, err
	}

	stored, err := r.GetByExternalID(ctx, video.VideoID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, sql.ErrNoRows
	}
	return stored, nil
}

// List returns all videos, oldest first
func (r *VideoRepository) List(ctx context.Context) ([]models.Video, error) {
	videos := []models.Video{}
	query := `SELECT id, video_id, title, created_at FROM videos ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &videos, query); err != nil {
		return nil, err
	}
	return videos, nil
}
