package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"microblog/internal/config"
	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/validation"
)

// SessionStore remembers revoked session token ids.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService interface {
	Register(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Authenticate(ctx context.Context, req models.SigninRequest) (*models.User, error)
	IssueSession(user *models.User) (*Session, error)
	VerifySession(ctx context.Context, token string) (*Session, error)
	SignOut(ctx context.Context, session *Session) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *TokenManager
	sessions SessionStore
	validate *validation.Validator
	cfg      config.Session
	log      *logrus.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(userRepo repository.UserRepository, tokens *TokenManager, sessions SessionStore,
	validate *validation.Validator, cfg config.Session, log *logrus.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		sessions: sessions,
		validate: validate,
		cfg:      cfg,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindConflicting(ctx, req.Email, req.Username)
	switch {
	case err == nil && existing.Email == req.Email:
		return nil, ErrEmailTaken
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if req.About != "" {
		about := req.About
		user.About = &about
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, mapUserWriteError(err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.UserID, "username": user.Username}).Info("user registered")
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, req models.SigninRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByLogin(ctx, req.EmailOrUsername)
	if errors.Is(err, repository.ErrNotFound) {
		// keep the response time close to the wrong-password path
		CheckPassword(s.dummy(), req.Password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = HashPassword("not-a-real-password", s.cfg.BcryptCost)
	})
	return s.dummyHash
}

func (s *authService) IssueSession(user *models.User) (*Session, error) {
	return s.tokens.Issue(user.UserID)
}

func (s *authService) VerifySession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	session, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	if s.sessions != nil {
		revoked, err := s.sessions.IsRevoked(ctx, session.TokenID)
		if err != nil {
			return nil, fmt.Errorf("verify session: %w", err)
		}
		if revoked {
			return nil, ErrUnauthorized
		}
	}

	return session, nil
}

// SignOut revokes the token until its natural expiry. Without a store the
// token stays valid until then and the client just drops it.
func (s *authService) SignOut(ctx context.Context, session *Session) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Revoke(ctx, session.TokenID, session.ExpiresAt)
}

func mapUserWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrEmailTaken):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrUsernameTaken):
		return ErrUsernameTaken
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	}
	return err
}
