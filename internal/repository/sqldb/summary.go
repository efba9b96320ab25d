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

// SummaryRepository implements repository.SummaryRepository
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// GetLatestByVideo returns the most recent summary of a video
func (r *SummaryRepository) GetLatestByVideo(ctx context.Context, videoID uuid.UUID) (*models.Summary, error) {
	var summary models.Summary
	query := r.db.Rebind(`
		SELECT id, video_id, user_id, content, created_at
		FROM summaries
		WHERE video_id = ?
		ORDER BY created_at DESC
		LIMIT 1`)

	err := r.db.GetContext(ctx, &summary, query, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

// Create inserts a summary
func (r *SummaryRepository) Create(ctx context.Context, summary *models.Summary) error {
	if summary.ID == uuid.Nil {
		summary.ID = uuid.New()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO summaries (id, video_id, user_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		summary.ID, summary.VideoID, summary.UserID, summary.Content, summary.CreatedAt)
	return err
}

// ListByVideos returns the summaries of the given videos, newest first
func (r *SummaryRepository) ListByVideos(ctx context.Context, videoIDs []uuid.UUID) ([]models.Summary, error) {
	summaries := []models.Summary{}
	if len(videoIDs) == 0 {
		return summaries, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, video_id, user_id, content, created_at
		FROM summaries
		WHERE video_id IN (?)
		ORDER BY created_at DESC`, videoIDs)
	if err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &summaries, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return summaries, nil
}

// DeleteByVideo removes every summary of a video and reports how many were removed
func (r *SummaryRepository) DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	query := r.db.Rebind(`DELETE FROM summaries WHERE video_id = ?`)

	result, err := r.db.ExecContext(ctx, query, videoID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
