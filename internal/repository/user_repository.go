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

const userColumns = `id, username, email, password_hash, about, profile_image, is_admin, created_at, updated_at`

const (
	queryInsertUser = `INSERT INTO users (id, username, email, password_hash, about, profile_image, is_admin, created_at, updated_at) VALUES (:id, :username, :email, :password_hash, :about, :profile_image, :is_admin, :created_at, :updated_at)`

	queryUserByID       = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	queryUserByUsername = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	// an identifier cannot be both an email and a username (usernames have no '@')
	queryUserByLogin = `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $1 LIMIT 1`

	// email matches sort first so the email conflict is reported before the username one
	queryConflictingUser = `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $2 ORDER BY (email = $1) DESC LIMIT 1`

	queryUpdateUser = `UPDATE users SET username = $1, about = $2, profile_image = $3, updated_at = $4 WHERE id = $5`
	queryDeleteUser = `DELETE FROM users WHERE id = $1`
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt

	_, err := r.db.NamedExecContext(ctx, queryInsertUser, user)
	if err != nil {
		if conflict := classifyUserWriteError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *userRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := r.getOne(ctx, queryUserByID, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, err
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := r.getOne(ctx, queryUserByUsername, username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, err
}

func (r *userRepository) GetUserByLogin(ctx context.Context, emailOrUsername string) (*models.User, error) {
	user, err := r.getOne(ctx, queryUserByLogin, emailOrUsername)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("get user by login: %w", err)
	}
	return user, err
}

func (r *userRepository) FindConflicting(ctx context.Context, email, username string) (*models.User, error) {
	user, err := r.getOne(ctx, queryConflictingUser, email, username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find conflicting user: %w", err)
	}
	return user, err
}

func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, queryUpdateUser,
		user.Username, user.About, user.ProfileImage, user.UpdatedAt, user.UserID)
	if err != nil {
		if conflict := classifyUserWriteError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteUser removes the user; posts go with it through ON DELETE CASCADE.
func (r *userRepository) DeleteUser(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx, queryDeleteUser, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
