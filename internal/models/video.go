package models

import (
	"time"

	"github.com/google/uuid"
)

// Video is a YouTube video known to the system.
type Video struct {
	ID        uuid.UUID `json:"id" db:"id"`
	VideoID   string    `json:"video_id" db:"video_id"` // external YouTube id
	Title     *string   `json:"title,omitempty" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TitleOr returns the stored title or fallback when none was recorded.
func (v *Video) TitleOr(fallback string) string {
	if v == nil || v.Title == nil || *v.Title == "" {
		return fallback
	}
	return *v.Title
}

// VideoWithSummary is one row of the video listing: a video and its most
// recent summary, with empty strings when it has none.
type VideoWithSummary struct {
	ID         uuid.UUID `json:"id"`
	VideoID    string    `json:"video_id"`
	Title      *string   `json:"title"`
	Summary    string    `json:"summary"`
	EndTime    string    `json:"endTime"`
	DatePosted string    `json:"datePosted"`
}
