package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/validation"
)

type PostService interface {
	Create(ctx context.Context, userID string, req models.PostRequest) (*models.Post, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Post, error)
	Update(ctx context.Context, userID, postID string, req models.PostRequest) (*models.Post, error)
	Delete(ctx context.Context, userID, postID string) error
	Feed(ctx context.Context) ([]models.FeedPost, error)
}

type postService struct {
	postRepo repository.PostRepository
	validate *validation.Validator
}

func NewPostService(postRepo repository.PostRepository, validate *validation.Validator) PostService {
	return &postService{postRepo: postRepo, validate: validate}
}

// content is trimmed before the length rules apply
func (p *postService) normalize(req models.PostRequest) (string, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := p.validate.Struct(req); err != nil {
		return "", err
	}
	return req.Content, nil
}

func (p *postService) Create(ctx context.Context, userID string, req models.PostRequest) (*models.Post, error) {
	content, err := p.normalize(req)
	if err != nil {
		return nil, err
	}

	post := &models.Post{Content: content, UserID: userID}
	if err := p.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrOwnerMissing) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return post, nil
}

func (p *postService) ListByOwner(ctx context.Context, userID string) ([]models.Post, error) {
	return p.postRepo.GetByUserID(ctx, userID)
}

// owned loads a post and checks that userID may modify it. Missing posts are
// reported before foreign ones.
func (p *postService) owned(ctx context.Context, userID, postID string) (*models.Post, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, ErrPostNotFound
	}

	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.UserID != userID {
		return nil, ErrForbidden
	}
	return post, nil
}

func (p *postService) Update(ctx context.Context, userID, postID string, req models.PostRequest) (*models.Post, error) {
	content, err := p.normalize(req)
	if err != nil {
		return nil, err
	}

	post, err := p.owned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	post.Content = content
	if err := p.postRepo.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

func (p *postService) Delete(ctx context.Context, userID, postID string) error {
	if _, err := p.owned(ctx, userID, postID); err != nil {
		return err
	}

	err := p.postRepo.Delete(ctx, postID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}

func (p *postService) Feed(ctx context.Context) ([]models.FeedPost, error) {
	return p.postRepo.GetRecent(ctx, repository.FeedSize)
}
