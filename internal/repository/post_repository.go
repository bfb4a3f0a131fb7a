package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"microblog/internal/models"
)

// FeedSize is the number of posts on the public feed.
const FeedSize = 10

const (
	queryInsertPost = `INSERT INTO posts (id, content, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`

	queryPostByID = `SELECT id, content, user_id, created_at, updated_at FROM posts WHERE id = $1`

	queryPostsByUser = `SELECT id, content, user_id, created_at, updated_at FROM posts WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	queryUpdatePost = `UPDATE posts SET content = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`

	queryDeletePost = `DELETE FROM posts WHERE id = $1 AND user_id = $2`

	queryRecentPosts = `SELECT p.id, p.content, p.user_id, p.created_at, p.updated_at, u.username, u.profile_image FROM posts p JOIN users u ON u.id = p.user_id ORDER BY p.created_at DESC, p.id DESC LIMIT $1`
)

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = post.CreatedAt

	_, err := r.DB.ExecContext(ctx, queryInsertPost,
		post.PostID, post.Content, post.UserID, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrOwnerMissing
		}
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	err := r.DB.GetContext(ctx, &post, queryPostByID, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// GetByUserID returns the user's posts, newest first.
func (r *PostRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.DB.SelectContext(ctx, &posts, queryPostsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("list posts of user: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()

	result, err := r.DB.ExecContext(ctx, queryUpdatePost, post.Content, post.UpdatedAt, post.PostID, post.UserID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update post: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, postID, userID string) error {
	result, err := r.DB.ExecContext(ctx, queryDeletePost, postID, userID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetRecent returns the newest posts across all users joined with their author.
func (r *PostRepositoryImpl) GetRecent(ctx context.Context, limit int) ([]models.FeedPost, error) {
	if limit <= 0 || limit > FeedSize {
		limit = FeedSize
	}

	posts := []models.FeedPost{}
	err := r.DB.SelectContext(ctx, &posts, queryRecentPosts, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}

	return posts, nil
}
