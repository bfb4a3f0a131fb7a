package handlers

import (
	"github.com/sirupsen/logrus"

	"microblog/internal/config"
	"microblog/internal/repository"
	"microblog/internal/service"
)

type Handlers struct {
	UserService service.UserService
	AuthService service.AuthService
	PostService service.PostService
	HealthRepo  repository.HealthRepository
	Cfg         *config.Config
	Log         *logrus.Logger
}

func NewHandlers(repo *repository.Repository, service *service.Service, config *config.Config, log *logrus.Logger) *Handlers {
	return &Handlers{
		UserService: service.User,
		AuthService: service.Auth,
		PostService: service.Post,
		HealthRepo:  repo.Health,
		Cfg:         config,
		Log:         log,
	}
}
