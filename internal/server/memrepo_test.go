package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"microblog/internal/models"
	"microblog/internal/repository"
)

// memStore backs the repository interfaces with maps.
type memStore struct {
	mu    sync.Mutex
	users map[string]models.User
	posts map[string]models.Post
	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]models.User{},
		posts: map[string]models.Post{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{User: memUsers{s}, Post: memPosts{s}, Health: memHealth{}}
}

type memHealth struct{}

func (memHealth) Ping(context.Context) error { return nil }

type memUsers struct{ s *memStore }

func (r memUsers) CreateUser(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	user.UserID = uuid.New().String()
	user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.UserID] = *user
	return nil
}

func (r memUsers) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.UserID == id })
}

func (r memUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r memUsers) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == login || u.Username == login })
}

func (r memUsers) FindConflicting(_ context.Context, email, username string) (*models.User, error) {
	if u, err := r.find(func(u models.User) bool { return u.Email == email }); err == nil {
		return u, nil
	}
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r memUsers) UpdateUser(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.UserID]; !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = r.s.tick()
	r.s.users[user.UserID] = *user
	return nil
}

func (r memUsers) DeleteUser(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

type memPosts struct{ s *memStore }

func (r memPosts) Create(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[post.UserID]; !ok {
		return repository.ErrOwnerMissing
	}
	post.PostID = uuid.New().String()
	post.CreatedAt = r.s.tick()
	post.UpdatedAt = post.CreatedAt
	r.s.posts[post.PostID] = *post
	return nil
}

func (r memPosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r memPosts) sorted() []models.Post {
	posts := make([]models.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].PostID > posts[j].PostID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (r memPosts) GetByUserID(_ context.Context, userID string) ([]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Post{}
	for _, p := range r.sorted() {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPosts) Update(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.posts[post.PostID]
	if !ok || existing.UserID != post.UserID {
		return repository.ErrNotFound
	}
	post.UpdatedAt = r.s.tick()
	r.s.posts[post.PostID] = *post
	return nil
}

func (r memPosts) Delete(_ context.Context, postID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.posts[postID]
	if !ok || existing.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.posts, postID)
	return nil
}

func (r memPosts) GetRecent(_ context.Context, limit int) ([]models.FeedPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.FeedPost{}
	for _, p := range r.sorted() {
		if len(out) == limit {
			break
		}
		author := r.s.users[p.UserID]
		out = append(out, models.FeedPost{Post: p, Username: author.Username, ProfileImage: author.ProfileImage})
	}
	return out, nil
}
