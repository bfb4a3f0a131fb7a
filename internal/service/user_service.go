package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/storage"
	"microblog/internal/validation"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.ProfileRequest) (*models.User, error)
}

type userService struct {
	userRepo     repository.UserRepository
	images       storage.Storage
	validate     *validation.Validator
	maxImageSize int64
	log          *logrus.Logger
}

// NewUserService accepts a nil images storage; data URIs are then stored inline.
func NewUserService(userRepo repository.UserRepository, images storage.Storage, validate *validation.Validator,
	maxImageSize int64, log *logrus.Logger) UserService {
	return &userService{
		userRepo:     userRepo,
		images:       images,
		validate:     validate,
		maxImageSize: maxImageSize,
		log:          log,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile applies the supplied fields. An empty username or profile image
// keeps the stored value, while an empty about clears it.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req models.ProfileRequest) (*models.User, error) {
	if req.Username != nil && *req.Username == "" {
		req.Username = nil
	}
	if req.ProfileImage != nil && *req.ProfileImage == "" {
		req.ProfileImage = nil
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		other, err := s.userRepo.GetUserByUsername(ctx, *req.Username)
		switch {
		case err == nil && other.UserID != user.UserID:
			return nil, ErrUsernameTaken
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("update profile: %w", err)
		}
		user.Username = *req.Username
	}

	if req.About != nil {
		if *req.About == "" {
			user.About = nil
		} else {
			about := *req.About
			user.About = &about
		}
	}

	var previousImage *string
	uploaded := false
	if req.ProfileImage != nil {
		stored, isNew, err := s.resolveImage(ctx, user.UserID, *req.ProfileImage)
		if err != nil {
			return nil, err
		}
		previousImage = user.ProfileImage
		user.ProfileImage = &stored
		uploaded = isNew
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		if uploaded {
			if delErr := s.images.DeleteImage(ctx, *user.ProfileImage); delErr != nil {
				s.log.WithError(delErr).WithField("user_id", user.UserID).Warn("failed to delete unused profile image")
			}
		}
		return nil, mapUserWriteError(err)
	}

	if previousImage != nil && s.images != nil && *previousImage != *user.ProfileImage {
		if err := s.images.DeleteImage(ctx, *previousImage); err != nil {
			s.log.WithError(err).WithField("user_id", user.UserID).Warn("failed to delete previous profile image")
		}
	}

	return user, nil
}

// resolveImage returns the value to store for a profile image reference and
// whether it was just uploaded. Data URIs are checked and moved to object
// storage when one is configured.
func (s *userService) resolveImage(ctx context.Context, userID, ref string) (string, bool, error) {
	if !storage.IsDataURI(ref) {
		return ref, false, nil
	}

	data, _, err := storage.DecodeDataURI(ref)
	if err != nil {
		return "", false, validation.Invalid("profileImage", "Profile image data is malformed")
	}

	if s.maxImageSize > 0 && int64(len(data)) > s.maxImageSize {
		return "", false, validation.Invalid("profileImage",
			fmt.Sprintf("Profile image must be at most %s", humanize.IBytes(uint64(s.maxImageSize))))
	}

	if _, err := storage.DetectImage(data); err != nil {
		return "", false, validation.Invalid("profileImage", "Profile image must be an image")
	}

	if s.images == nil {
		return ref, false, nil
	}

	url, err := s.images.UploadProfileImage(ctx, userID, data)
	if err != nil {
		return "", false, fmt.Errorf("store profile image: %w", err)
	}
	return url, true, nil
}
