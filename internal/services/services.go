package services

import (
	"github.com/sirupsen/logrus"

	"github.com/youtools/youtools-backend/internal/config"
	"github.com/youtools/youtools-backend/internal/llm"
	"github.com/youtools/youtools-backend/internal/locking"
	"github.com/youtools/youtools-backend/internal/repository"
	"github.com/youtools/youtools-backend/internal/transcript"
)

// Services holds all service instances
type Services struct {
	Summary     *SummaryService
	Videos      *VideoService
	Transcripts *TranscriptService

	// GenerationStats is nil when the generator keeps no metrics.
	GenerationStats llm.StatsReporter
}

// Dependencies are the collaborators the services are built from.
type Dependencies struct {
	Videos      repository.VideoRepository
	Summaries   repository.SummaryRepository
	Transcripts transcript.Provider
	Generator   llm.TextGenerator
	Locker      locking.Locker
	Cache       IntervalCache // optional
}

// NewServices creates all service instances
func NewServices(cfg *config.Config, deps Dependencies, logger *logrus.Logger) *Services {
	svc := &Services{
		Summary: NewSummaryService(
			deps.Videos,
			deps.Summaries,
			deps.Transcripts,
			deps.Generator,
			deps.Locker,
			cfg.Generation.PromptTemplate,
			logger,
		),
		Videos:      NewVideoService(deps.Videos, deps.Summaries, logger),
		Transcripts: NewTranscriptService(deps.Transcripts, deps.Cache, cfg.Transcript.WindowSeconds, logger),
	}
	if reporter, ok := deps.Generator.(llm.StatsReporter); ok {
		svc.GenerationStats = reporter
	}
	return svc
}
