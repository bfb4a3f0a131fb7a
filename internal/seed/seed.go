// Package seed loads demo users and back-dated posts into the store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/service"
	"microblog/internal/validation"
)

//go:embed default.yaml
var defaultFixture []byte

type Post struct {
	Content   string    `yaml:"content"`
	CreatedAt time.Time `yaml:"createdAt"`
}

type User struct {
	Username     string `yaml:"username"`
	Email        string `yaml:"email"`
	Password     string `yaml:"password"`
	About        string `yaml:"about"`
	ProfileImage string `yaml:"profileImage"`
	Posts        []Post `yaml:"posts"`
}

type Fixture struct {
	Users []User `yaml:"users"`
}

type Options struct {
	// Reset deletes a user that already exists (and its posts) before inserting it again.
	Reset      bool
	BcryptCost int
}

type Result struct {
	UsersCreated int
	UsersSkipped int
	PostsCreated int
}

func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

func Load(r io.Reader) (*Fixture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture and checks every user and post against the same
// rules the API applies.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if len(f.Users) == 0 {
		return nil, errors.New("fixture has no users")
	}

	validate := validation.New()
	seen := make(map[string]bool, len(f.Users))

	for i, u := range f.Users {
		if seen[u.Username] {
			return nil, fmt.Errorf("user %d: duplicate username %q", i, u.Username)
		}
		seen[u.Username] = true

		err := validate.Struct(models.SignupRequest{
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
			About:    u.About,
		})
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", u.Username, err)
		}
		if err := validate.Struct(models.ProfileRequest{ProfileImage: optional(u.ProfileImage)}); err != nil {
			return nil, fmt.Errorf("user %q: %w", u.Username, err)
		}

		for j := range u.Posts {
			content := strings.TrimSpace(u.Posts[j].Content)
			f.Users[i].Posts[j].Content = content
			if err := validate.Struct(models.PostRequest{Content: content}); err != nil {
				return nil, fmt.Errorf("user %q post %d: %w", u.Username, j, err)
			}
		}
	}

	return &f, nil
}

func Apply(ctx context.Context, users repository.UserRepository, posts repository.PostRepository,
	f *Fixture, opts Options, log *logrus.Logger) (*Result, error) {
	res := &Result{}

	for _, u := range f.Users {
		entry := log.WithField("username", u.Username)

		existing, err := users.GetUserByUsername(ctx, u.Username)
		switch {
		case err == nil && !opts.Reset:
			entry.Info("user exists, skipping")
			res.UsersSkipped++
			continue
		case err == nil:
			if err := users.DeleteUser(ctx, existing.UserID); err != nil {
				return res, fmt.Errorf("reset user %q: %w", u.Username, err)
			}
			entry.Info("existing user removed")
		case !errors.Is(err, repository.ErrNotFound):
			return res, fmt.Errorf("look up user %q: %w", u.Username, err)
		}

		hash, err := service.HashPassword(u.Password, opts.BcryptCost)
		if err != nil {
			return res, err
		}

		user := &models.User{
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: hash,
			About:        optional(u.About),
			ProfileImage: optional(u.ProfileImage),
		}
		if err := users.CreateUser(ctx, user); err != nil {
			return res, fmt.Errorf("create user %q: %w", u.Username, err)
		}
		res.UsersCreated++

		for _, p := range u.Posts {
			post := &models.Post{
				Content:   strings.TrimSpace(p.Content),
				UserID:    user.UserID,
				CreatedAt: p.CreatedAt.UTC(),
			}
			if err := posts.Create(ctx, post); err != nil {
				return res, fmt.Errorf("create post for %q: %w", u.Username, err)
			}
			res.PostsCreated++
		}

		entry.WithField("posts", len(u.Posts)).Info("user seeded")
	}

	return res, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
