package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"microblog/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByLogin(ctx context.Context, emailOrUsername string) (*models.User, error)
	FindConflicting(ctx context.Context, email, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID, userID string) error
	GetRecent(ctx context.Context, limit int) ([]models.FeedPost, error)
}

type HealthRepository interface {
	Ping(ctx context.Context) error
}

type Repository struct {
	User   UserRepository
	Post   PostRepository
	Health HealthRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:   NewUserRepository(db),
		Post:   NewPostRepository(db),
		Health: NewHealthRepository(db),
	}
}
