package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/youtools/youtools-backend/internal/config"
	"github.com/youtools/youtools-backend/internal/database"
	"github.com/youtools/youtools-backend/internal/logging"
	"github.com/youtools/youtools-backend/internal/repository/sqldb"
)

const usage = `usage: tools <command>

commands:
  migrate up              apply pending migrations
  migrate down            roll back the last migration
  clear-summary <video>   delete the stored summaries of a video`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	switch os.Args[1] {
	case "migrate":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		switch os.Args[2] {
		case "up":
			err = database.RunMigrations(db)
		case "down":
			err = database.RollbackMigration(db)
		default:
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		if err != nil {
			log.WithError(err).Fatal("Migration failed")
		}
		log.WithField("direction", os.Args[2]).Info("Migration complete")

	case "clear-summary":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		videoID := os.Args[2]
		video, err := sqldb.NewVideoRepository(db.DB).GetByExternalID(ctx, videoID)
		if err != nil {
			log.WithError(err).Fatal("Failed to look up video")
		}
		if video == nil {
			log.WithField("video_id", videoID).Warn("Video not found")
			return
		}

		deleted, err := sqldb.NewSummaryRepository(db.DB).DeleteByVideo(ctx, video.ID)
		if err != nil {
			log.WithError(err).Fatal("Failed to delete summaries")
		}
		log.WithField("video_id", videoID).WithField("deleted", deleted).Info("Summaries cleared")

	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}
