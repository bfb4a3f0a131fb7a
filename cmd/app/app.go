package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"microblog/internal/cache"
	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/repository"
	"microblog/internal/service"
	"microblog/internal/storage"
)

type App struct {
	DB       *database.DB
	Redis    *redis.Client
	Repo     *repository.Repository
	Services *service.Service
}

// New connects PostgreSQL and, when configured, Redis and MinIO, then wires
// repositories and services.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	// connection DB
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		return nil, err
	}

	a := &App{DB: db}

	var sessions service.SessionStore
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = rdb
		sessions = cache.NewSessionStore(rdb)
		log.WithField("addr", cfg.Redis.Addr).Info("redis connected")
	} else {
		log.Warn("REDIS_ADDR not set: sign-out revocation and rate limiting are disabled")
	}

	var images storage.Storage
	if cfg.MinIO.Enabled() {
		minioClient, err := storage.NewMinIOClient(cfg.MinIO)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := minioClient.EnsureBucket(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("prepare image bucket: %w", err)
		}
		images = minioClient
		log.WithField("bucket", cfg.MinIO.BucketName).Info("minio connected")
	} else {
		log.Warn("MINIO_ENDPOINT not set: profile images are stored inline")
	}

	// enabling dependencies
	a.Repo = repository.NewRepository(db.DB)
	a.Services = service.NewService(a.Repo, cfg, images, sessions, log)

	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.CloseDB()
	}
}
