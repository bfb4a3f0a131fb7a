package service

import (
	"github.com/sirupsen/logrus"

	"microblog/internal/config"
	"microblog/internal/repository"
	"microblog/internal/storage"
	"microblog/internal/validation"
)

type Service struct {
	User UserService
	Post PostService
	Auth AuthService
}

// NewService wires the services. images and sessions may be nil when MinIO or
// Redis are not configured.
func NewService(rep *repository.Repository, cfg *config.Config, images storage.Storage, sessions SessionStore,
	log *logrus.Logger) *Service {
	validate := validation.New()
	tokens := NewTokenManager(cfg.Session.JWTSecretKey, cfg.Session.TokenTTL)

	return &Service{
		User: NewUserService(rep.User, images, validate, cfg.MaxImageSize, log),
		Post: NewPostService(rep.Post, validate),
		Auth: NewAuthService(rep.User, tokens, sessions, validate, cfg.Session, log),
	}
}
