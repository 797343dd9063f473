package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/alurecine/daily-whisper/internal/config"
	"github.com/alurecine/daily-whisper/internal/entitlement"
	"github.com/alurecine/daily-whisper/internal/logger"
	"github.com/alurecine/daily-whisper/internal/model"
	"github.com/alurecine/daily-whisper/internal/repository/postgres"
	"github.com/alurecine/daily-whisper/internal/repository/sqlite"
	"github.com/alurecine/daily-whisper/internal/service"
	storage "github.com/alurecine/daily-whisper/internal/storage/minio"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	if err := os.MkdirAll(cfg.Audio.DataDir, 0o700); err != nil {
		logger.Fatal("failed to create data directory", "error", err)
	}

	db, err := sqlite.NewConnection(ctx, filepath.Join(cfg.Audio.DataDir, "whisper.db"))
	if err != nil {
		logger.Fatal("failed to initialize local store", "error", err)
	}
	defer db.Close()

	entryRepo := sqlite.NewEntryRepository(db)
	userRepo := sqlite.NewUserRepository(db)

	user, err := userRepo.FetchOrCreate(ctx)
	if err != nil {
		logger.Fatal("failed to load user", "error", err)
	}

	tier := user.Tier
	if cfg.Audio.Tier != "" {
		tier, err = model.ParseTier(cfg.Audio.Tier)
		if err != nil {
			logger.Fatal("failed to parse tier override", "error", err)
		}
	}
	tiers := entitlement.NewSource(tier)
	tiers.OnChange(func(t model.Tier) {
		if err := userRepo.SetTier(context.Background(), user.ID, t); err != nil {
			logger.Error("failed to persist tier change", "error", err)
		}
	})

	remoteDB, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize remote database", "error", err)
	}
	defer remoteDB.Close()
	remote := postgres.NewRemote(remoteDB)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Endpoint, cfg.Storage.Bucket, cfg.Storage.UseSSL)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	syncer := service.NewSyncer(entryRepo, remote, storageClient, service.RemotePaths{},
		cfg.Audio.DataDir, cfg.Sync.UploadConcurrency, logger)
	// Headless runs have no playback session to guard against.
	sweeper := service.NewSweeper(entryRepo, tiers, nil, cfg.Audio.DataDir, logger)

	logAppVersion()
	logger.Info("engine started",
		"user_id", user.ID,
		"tier", tiers.CurrentTier(),
		"data_dir", cfg.Audio.DataDir,
	)

	runLoop(ctx, cfg, logger, sweeper, syncer, user.ID)

	logger.Info("shutdown complete")
}

// runLoop drives the background schedules until the context is
// cancelled. SIGHUP forces an immediate sweep and upload pass.
func runLoop(
	ctx context.Context,
	cfg *config.Config,
	logger *logger.Logger,
	sweeper *service.Sweeper,
	syncer *service.Syncer,
	ownerID uuid.UUID,
) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	sweepTicker := time.NewTicker(cfg.Sync.SweepInterval)
	defer sweepTicker.Stop()
	uploadTicker := time.NewTicker(cfg.Sync.UploadInterval)
	defer uploadTicker.Stop()

	sweep := func() {
		if deleted, err := sweeper.Sweep(ctx, time.Now()); err != nil {
			logger.Error("retention sweep failed", "error", err)
		} else if deleted > 0 {
			logger.Info("retention sweep removed entries", "deleted", deleted)
		}
	}
	upload := func() {
		if err := syncer.UploadAllLocal(ctx, ownerID); err != nil {
			logger.Error("upload pass failed", "error", err)
		}
	}

	sweep()
	upload()

	for {
		select {
		case <-ctx.Done():
			logger.Info("received interruption signal, shutting down")
			return
		case <-hup:
			logger.Info("received SIGHUP, forcing sweep and upload")
			sweep()
			upload()
		case <-sweepTicker.C:
			sweep()
		case <-uploadTicker.C:
			upload()
		}
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
