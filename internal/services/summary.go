package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/youtools/youtools-backend/internal/apperr"
	"github.com/youtools/youtools-backend/internal/auth"
	"github.com/youtools/youtools-backend/internal/llm"
	"github.com/youtools/youtools-backend/internal/locking"
	"github.com/youtools/youtools-backend/internal/models"
	"github.com/youtools/youtools-backend/internal/repository"
	"github.com/youtools/youtools-backend/internal/transcript"
)

const (
	// TitleNotAvailable is stored and returned when the provider has no title.
	TitleNotAvailable = "Title not available"
	// UnknownTitle is returned with a cached summary whose video has no title.
	UnknownTitle = "Unknown Title"

	persistTimeout = 10 * time.Second
)

// SummarizeRequest is one summarize call.
type SummarizeRequest struct {
	VideoID  string
	Identity *auth.Identity // nil for anonymous callers
	Persist  bool
}

// SummarizeResult is what the caller gets back.
type SummarizeResult struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Cached  bool   `json:"-"`
}

// SummaryService returns a cached summary for a video or generates one.
type SummaryService struct {
	videos         repository.VideoRepository
	summaries      repository.SummaryRepository
	transcripts    transcript.Provider
	generator      llm.TextGenerator
	locker         locking.Locker
	promptTemplate string
	logger         *logrus.Logger
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	videos repository.VideoRepository,
	summaries repository.SummaryRepository,
	transcripts transcript.Provider,
	generator llm.TextGenerator,
	locker locking.Locker,
	promptTemplate string,
	logger *logrus.Logger,
) *SummaryService {
	return &SummaryService{
		videos:         videos,
		summaries:      summaries,
		transcripts:    transcripts,
		generator:      generator,
		locker:         locker,
		promptTemplate: promptTemplate,
		logger:         logger,
	}
}

// Summarize runs the check, fetch, generate and persist sequence under a
// per-video lock, so concurrent callers for one video generate at most once
// when persisting.
func (s *SummaryService) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResult, error) {
	videoID := strings.TrimSpace(req.VideoID)
	if videoID == "" {
		return nil, apperr.Validation("missing video_id", nil)
	}
	log := s.logger.WithField("video_id", videoID)

	unlock, err := s.locker.Lock(ctx, "video:"+videoID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "acquire video lock")
	}
	defer unlock()

	video, err := s.videos.GetByExternalID(ctx, videoID)
	if err != nil {
		return nil, apperr.Persistence("look up video", err)
	}

	var tr *transcript.Transcript
	if video == nil {
		tr, err = s.fetchTranscript(ctx, videoID)
		if err != nil {
			return nil, err
		}

		title := titleOf(tr)
		video, err = s.videos.Create(ctx, &models.Video{VideoID: videoID, Title: &title})
		if err != nil {
			return nil, apperr.Persistence("create video", err)
		}
		log.WithField("id", video.ID).Info("Video registered")
	}

	cached, err := s.summaries.GetLatestByVideo(ctx, video.ID)
	if err != nil {
		log.WithError(err).Warn("Summary lookup failed, generating a new one")
		cached = nil
	}
	if cached != nil {
		log.Debug("Returning cached summary")
		return &SummarizeResult{
			Title:   video.TitleOr(UnknownTitle),
			Summary: cached.Content,
			Cached:  true,
		}, nil
	}

	if tr == nil {
		tr, err = s.fetchTranscript(ctx, videoID)
		if err != nil {
			return nil, err
		}
	}

	started := time.Now()
	content, err := s.generator.Generate(ctx, llm.BuildPrompt(s.promptTemplate, tr.Text()))
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindGeneration, "generate summary")
	}
	log.WithField("duration", time.Since(started).String()).Info("Summary generated")

	if req.Persist {
		s.persist(ctx, video, req.Identity, content)
	}

	return &SummarizeResult{Title: titleOf(tr), Summary: content}, nil
}

func (s *SummaryService) fetchTranscript(ctx context.Context, videoID string) (*transcript.Transcript, error) {
	tr, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindProvider, "failed to fetch transcript")
	}
	return tr, nil
}

// persist stores the summary on a context detached from the caller, so a
// client disconnect cannot cancel the write. Failures are only logged.
func (s *SummaryService) persist(ctx context.Context, video *models.Video, identity *auth.Identity, content string) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	summary := &models.Summary{VideoID: video.ID, Content: content}
	if identity != nil {
		subject := identity.Subject
		summary.UserID = &subject
	}

	if err := s.summaries.Create(writeCtx, summary); err != nil {
		s.logger.WithError(err).WithField("video_id", video.VideoID).Error("Failed to save summary")
		return
	}
	s.logger.WithField("video_id", video.VideoID).Debug("Summary saved")
}

func titleOf(tr *transcript.Transcript) string {
	if tr == nil || strings.TrimSpace(tr.Title) == "" {
		return TitleNotAvailable
	}
	return tr.Title
}
