package models

import (
	"time"

	"github.com/google/uuid"
)

// Summary is a generated summary of a video. VideoID references Video.ID,
// not the external YouTube id.
type Summary struct {
	ID        uuid.UUID `json:"id" db:"id"`
	VideoID   uuid.UUID `json:"video_id" db:"video_id"`
	UserID    *string   `json:"user_id,omitempty" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
