package testRepository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/models"
	"microblog/internal/repository"
)

var postColumns = []string{"id", "content", "user_id", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	t.Cleanup(func() { sqlxDB.Close() })

	return sqlxDB, mock
}

func TestNewPostRepository(t *testing.T) {
	db, _ := setupMockDB(t)

	repo := repository.NewPostRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.DB)
}

func TestPostRepositoryImpl_Create(t *testing.T) {
	insert := `INSERT INTO posts (id, content, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`

	tests := []struct {
		name      string
		post      *models.Post
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
		errorMsg  string
	}{
		{
			name: "creates post with generated id",
			post: &models.Post{Content: "hello world", UserID: "user-1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insert).
					WithArgs(sqlmock.AnyArg(), "hello world", "user-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "keeps caller supplied id",
			post: &models.Post{PostID: "post-1", Content: "seeded", UserID: "user-1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insert).
					WithArgs("post-1", "seeded", "user-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "owner does not exist",
			post: &models.Post{Content: "orphan", UserID: "ghost"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insert).WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: repository.ErrOwnerMissing,
		},
		{
			name: "database error",
			post: &models.Post{Content: "hello", UserID: "user-1"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(insert).WillReturnError(errors.New("connection refused"))
			},
			errorMsg: "create post",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := repository.NewPostRepository(db)
			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.post)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errorMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, tt.post.PostID)
				assert.False(t, tt.post.CreatedAt.IsZero())
				assert.Equal(t, tt.post.CreatedAt, tt.post.UpdatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepositoryImpl_GetByID(t *testing.T) {
	query := `SELECT id, content, user_id, created_at, updated_at FROM posts WHERE id = $1`
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPostRepository(db)
		mock.ExpectQuery(query).WithArgs("post-1").
			WillReturnRows(sqlmock.NewRows(postColumns).AddRow("post-1", "hi", "user-1", now, now))

		post, err := repo.GetByID(context.Background(), "post-1")

		require.NoError(t, err)
		assert.Equal(t, "hi", post.Content)
		assert.Equal(t, "user-1", post.UserID)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPostRepository(db)
		mock.ExpectQuery(query).WithArgs("missing").WillReturnError(sql.ErrNoRows)

		post, err := repo.GetByID(context.Background(), "missing")

		assert.Nil(t, post)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestPostRepositoryImpl_GetByUserID(t *testing.T) {
	query := `SELECT id, content, user_id, created_at, updated_at FROM posts WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	now := time.Now().UTC()

	t.Run("newest first", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPostRepository(db)
		mock.ExpectQuery(query).WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(postColumns).
				AddRow("post-2", "second", "user-1", now, now).
				AddRow("post-1", "first", "user-1", now.Add(-time.Minute), now.Add(-time.Minute)))

		posts, err := repo.GetByUserID(context.Background(), "user-1")

		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "second", posts[0].Content)
		assert.Equal(t, "first", posts[1].Content)
	})

	t.Run("no posts gives empty slice", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPostRepository(db)
		mock.ExpectQuery(query).WithArgs("user-2").WillReturnRows(sqlmock.NewRows(postColumns))

		posts, err := repo.GetByUserID(context.Background(), "user-2")

		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})
}

func TestPostRepositoryImpl_Update(t *testing.T) {
	query := `UPDATE posts SET content = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`

	t.Run("updated", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPostRepository(db)
		post := &models.Post{PostID: "post-1", UserID: "user-1", Content: "edited"}
		mock.ExpectExec(query).
			WithArgs("edited", sqlmock.AnyArg(), "post-1", "user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), post)

		require.NoError(t, err)
		assert.False(t, post.UpdatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no matching row", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPostRepository(db)
		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), &models.Post{PostID: "post-1", UserID: "user-2"})

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestPostRepositoryImpl_Delete(t *testing.T) {
	query := `DELETE FROM posts WHERE id = $1 AND user_id = $2`

	db, mock := setupMockDB(t)
	repo := repository.NewPostRepository(db)
	mock.ExpectExec(query).WithArgs("post-1", "user-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("post-1", "user-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(query).WithArgs("post-2", "user-1").WillReturnError(errors.New("timeout"))

	assert.NoError(t, repo.Delete(context.Background(), "post-1", "user-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "post-1", "user-1"), repository.ErrNotFound)

	err := repo.Delete(context.Background(), "post-2", "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete post")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryImpl_GetRecent(t *testing.T) {
	query := `SELECT p.id, p.content, p.user_id, p.created_at, p.updated_at, u.username, u.profile_image FROM posts p JOIN users u ON u.id = p.user_id ORDER BY p.created_at DESC, p.id DESC LIMIT $1`
	columns := append(append([]string{}, postColumns...), "username", "profile_image")
	now := time.Now().UTC()

	t.Run("joins author", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPostRepository(db)
		mock.ExpectQuery(query).WithArgs(repository.FeedSize).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("post-2", "bye", "user-2", now, now, "bob", "/bob.png").
				AddRow("post-1", "hi", "user-1", now.Add(-time.Second), now.Add(-time.Second), "alice", nil))

		posts, err := repo.GetRecent(context.Background(), repository.FeedSize)

		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "bob", posts[0].Username)
		require.NotNil(t, posts[0].ProfileImage)
		assert.Equal(t, "/bob.png", *posts[0].ProfileImage)
		assert.Equal(t, "post-1", posts[1].PostID)
		assert.Nil(t, posts[1].ProfileImage)
	})

	t.Run("limit is clamped to feed size", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := repository.NewPostRepository(db)
		mock.ExpectQuery(query).WithArgs(repository.FeedSize).WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectQuery(query).WithArgs(repository.FeedSize).WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectQuery(query).WithArgs(3).WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetRecent(context.Background(), 500)
		require.NoError(t, err)
		_, err = repo.GetRecent(context.Background(), 0)
		require.NoError(t, err)
		posts, err := repo.GetRecent(context.Background(), 3)
		require.NoError(t, err)

		assert.NotNil(t, posts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
