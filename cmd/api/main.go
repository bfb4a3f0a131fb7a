package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"microblog/cmd/app"
	"microblog/internal/config"
	handlers "microblog/internal/handler"
	"microblog/internal/logger"
	"microblog/internal/server"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()
	log := logger.New("microblog-api", cfg.Server.Env)

	if cfg.Session.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}
	defer application.Close()

	handler := handlers.NewHandlers(application.Repo, application.Services, cfg, log)
	router := server.NewRouter(handler, cfg, application.Redis, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.WithFields(logrus.Fields{
		"port":           cfg.Server.Port,
		"env":            cfg.Server.Env,
		"database":       cfg.DB.Name,
		"max_body":       humanize.IBytes(uint64(cfg.Server.MaxBodySize)),
		"max_image":      humanize.IBytes(uint64(cfg.MaxImageSize)),
		"session_ttl":    cfg.Session.TokenTTL.String(),
		"redis_enabled":  cfg.Redis.Enabled(),
		"images_enabled": cfg.MinIO.Enabled(),
	}).Info("starting microblog api")

	if err := server.Run(ctx, srv, cfg.Server.ShutdownTimeout, log); err != nil {
		log.WithError(err).Error("server stopped with error")
		application.Close()
		os.Exit(1)
	}
}
