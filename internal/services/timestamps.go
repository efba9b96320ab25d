package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/youtools/youtools-backend/internal/apperr"
	"github.com/youtools/youtools-backend/internal/cache"
	"github.com/youtools/youtools-backend/internal/transcript"
)

// IntervalCache is the subset of cache.Cache the transcript service needs.
type IntervalCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// TranscriptService serves a video's transcript bucketed into fixed windows.
type TranscriptService struct {
	transcripts   transcript.Provider
	cache         IntervalCache
	windowSeconds int
	logger        *logrus.Logger
}

// NewTranscriptService creates a new transcript service. cache may be nil.
func NewTranscriptService(transcripts transcript.Provider, c IntervalCache, windowSeconds int, logger *logrus.Logger) *TranscriptService {
	if windowSeconds <= 0 {
		windowSeconds = transcript.DefaultWindowSeconds
	}
	return &TranscriptService{
		transcripts:   transcripts,
		cache:         c,
		windowSeconds: windowSeconds,
		logger:        logger,
	}
}

// Intervals returns the aggregated intervals of a video.
func (s *TranscriptService) Intervals(ctx context.Context, videoID string) ([]transcript.TimeInterval, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, apperr.Validation("missing video_id", nil)
	}

	key := cache.IntervalsKey(s.windowSeconds, videoID)
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var intervals []transcript.TimeInterval
			if err := json.Unmarshal(raw, &intervals); err == nil {
				return intervals, nil
			}
			s.logger.WithField("key", key).Warn("Discarding corrupt cached intervals")
		}
	}

	tr, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindProvider, "failed to fetch transcript")
	}

	intervals := transcript.Aggregate(tr.Segments, s.windowSeconds)

	if s.cache != nil {
		if raw, err := json.Marshal(intervals); err == nil {
			s.cache.Set(ctx, key, raw)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"video_id":  videoID,
		"intervals": len(intervals),
	}).Debug("Transcript aggregated")
	return intervals, nil
}
