package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("post belongs to another user")
	ErrPostNotFound       = errors.New("post not found")
	ErrUserNotFound       = errors.New("user not found")
)
