package models

import (
	"time"
)

type User struct {
	UserID       string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	About        *string   `json:"about" db:"about"`
	ProfileImage *string   `json:"profileImage" db:"profile_image"`
	IsAdmin      bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicProfile is the part of a user that may leave the server.
type PublicProfile struct {
	UserID       string  `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	About        *string `json:"about"`
	ProfileImage *string `json:"profileImage"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		UserID:       u.UserID,
		Username:     u.Username,
		Email:        u.Email,
		About:        u.About,
		ProfileImage: u.ProfileImage,
	}
}

type Post struct {
	PostID    string    `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	UserID    string    `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// FeedPost is a post joined with its author for the public feed.
type FeedPost struct {
	Post
	Username     string  `json:"username" db:"username"`
	ProfileImage *string `json:"profileImage" db:"profile_image"`
}
