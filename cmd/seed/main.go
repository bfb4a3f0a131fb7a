package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"microblog/cmd/app"
	"microblog/internal/config"
	"microblog/internal/logger"
	"microblog/internal/models"
	"microblog/internal/seed"
)

func main() {
	var (
		file     = flag.String("file", "", "YAML fixture to load (default: embedded demo data)")
		reset    = flag.Bool("reset", false, "delete fixture users that already exist before inserting them")
		setImage = flag.String("set-image", "", "set the profile image of -user to this URL or path and exit")
		username = flag.String("user", "", "username for -set-image")
	)
	flag.Parse()

	cfg := config.LoadConfig()
	log := logger.New("microblog-seed", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *setImage != "" && *username == "" {
		log.Fatal("-set-image requires -user")
	}

	var fixture *seed.Fixture
	if *setImage == "" {
		var err error
		fixture, err = loadFixture(*file)
		if err != nil {
			log.WithError(err).Fatal("invalid fixture")
		}
	}

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}
	defer application.Close()

	if *setImage != "" {
		if err := updateImage(ctx, application, *username, *setImage, log); err != nil {
			log.WithError(err).Error("profile image update failed")
			application.Close()
			os.Exit(1)
		}
		return
	}

	res, err := seed.Apply(ctx, application.Repo.User, application.Repo.Post, fixture,
		seed.Options{Reset: *reset, BcryptCost: cfg.Session.BcryptCost}, log)
	if err != nil {
		log.WithError(err).Error("seeding failed")
		application.Close()
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{
		"users_created": res.UsersCreated,
		"users_skipped": res.UsersSkipped,
		"posts_created": res.PostsCreated,
	}).Info("seeding completed")
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return seed.Load(f)
}

func updateImage(ctx context.Context, a *app.App, username, image string, log *logrus.Logger) error {
	user, err := a.Repo.User.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	updated, err := a.Services.User.UpdateProfile(ctx, user.UserID, models.ProfileRequest{ProfileImage: &image})
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"username":      updated.Username,
		"profile_image": *updated.ProfileImage,
	}).Info("profile image updated")

	return nil
}
