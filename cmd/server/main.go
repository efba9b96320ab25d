package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/youtools/youtools-backend/internal/api"
	"github.com/youtools/youtools-backend/internal/auth"
	"github.com/youtools/youtools-backend/internal/cache"
	"github.com/youtools/youtools-backend/internal/config"
	"github.com/youtools/youtools-backend/internal/database"
	"github.com/youtools/youtools-backend/internal/llm"
	"github.com/youtools/youtools-backend/internal/locking"
	"github.com/youtools/youtools-backend/internal/logging"
	"github.com/youtools/youtools-backend/internal/repository/sqldb"
	"github.com/youtools/youtools-backend/internal/retry"
	"github.com/youtools/youtools-backend/internal/services"
	"github.com/youtools/youtools-backend/internal/transcript"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	// Connect to database
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	// Initialize repositories
	videoRepo := sqldb.NewVideoRepository(db.DB)
	summaryRepo := sqldb.NewSummaryRepository(db.DB)

	provider := transcript.NewYouTubeProvider(transcript.YouTubeConfig{
		Languages: cfg.Transcript.Languages,
		Timeout:   cfg.Transcript.Timeout,
		Retry:     retry.DefaultConfig.WithMaxRetries(cfg.Transcript.MaxRetries),
	}, log)

	generator, err := llm.NewGenerator(cfg.Generation, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure summary generator")
	}

	intervalCache := cache.New(cfg.Cache.TTL, cfg.Cache.RedisURL, log)
	defer intervalCache.Close()

	locker, closeLocker := newLocker(cfg, log)
	defer closeLocker()

	svc := services.NewServices(cfg, services.Dependencies{
		Videos:      videoRepo,
		Summaries:   summaryRepo,
		Transcripts: provider,
		Generator:   generator,
		Locker:      locker,
		Cache:       intervalCache,
	}, log)

	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret, auth.DefaultIssuer)
	if !verifier.Configured() {
		log.Warn("No JWT secret configured, extension requests will be rejected")
	}
	resolver := auth.NewResolver(verifier, log)

	app := api.NewApp(cfg.Server, log)
	api.SetupRoutes(app, svc, resolver, cfg)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":    cfg.Server.Addr(),
		"backend": cfg.Generation.Backend,
		"driver":  cfg.Database.Driver,
	}).Info("YouTools backend starting")

	if err := app.Listen(cfg.Server.Addr()); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}

// newLocker picks the per-video lock implementation. Advisory locks let
// several instances share one Postgres database.
func newLocker(cfg *config.Config, log *logrus.Logger) (locking.Locker, func()) {
	if cfg.Locking.Mode != "advisory" {
		return locking.NewMemoryLocker(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	locker, err := locking.NewAdvisoryLocker(ctx, database.GetMigrationURL(cfg.Database), log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect advisory locker")
	}
	return locker, locker.Close
}
