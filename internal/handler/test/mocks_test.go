package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"microblog/internal/models"
	"microblog/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockAuthService) Authenticate(ctx context.Context, req models.SigninRequest) (*models.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockAuthService) IssueSession(user *models.User) (*service.Session, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) VerifySession(ctx context.Context, token string) (*service.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, session *service.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req models.ProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) post(args mock.Arguments) (*models.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) Create(ctx context.Context, userID string, req models.PostRequest) (*models.Post, error) {
	return m.post(m.Called(ctx, userID, req))
}

func (m *MockPostService) ListByOwner(ctx context.Context, userID string) ([]models.Post, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) Update(ctx context.Context, userID, postID string, req models.PostRequest) (*models.Post, error) {
	return m.post(m.Called(ctx, userID, postID, req))
}

func (m *MockPostService) Delete(ctx context.Context, userID, postID string) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockPostService) Feed(ctx context.Context) ([]models.FeedPost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FeedPost), args.Error(1)
}

type MockHealthRepository struct {
	mock.Mock
}

func (m *MockHealthRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
