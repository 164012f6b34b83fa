package user

import "errors"

var (
	ErrInvalidUserInput = errors.New("invalid user input")
	ErrEmailTaken       = errors.New("email already exists")
	ErrCreateUser       = errors.New("failed to create user")
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrUserNotFound     = errors.New("user not found")
	ErrGetUserByID      = errors.New("failed to get user by id")
)
