package repository

import "errors"

var (
	ErrEmailNotFound     = errors.New("email not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrIntentionNotFound = errors.New("intention not found")
	ErrPriceNotFound     = errors.New("price not found")
	ErrActionNotFound    = errors.New("action not found")
	ErrUserExists        = errors.New("user already exists")
	ErrInvalidInput      = errors.New("invalid input parameters")
)
