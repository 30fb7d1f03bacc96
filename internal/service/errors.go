package service

import (
	"errors"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserBanned         = errors.New("user is banned")
	ErrInvalidCoordinates = dom.ErrInvalidCoordinates
	ErrEventInPast        = errors.New("event date is in the past")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupportedImage   = errors.New("unsupported image format")
	ErrImageTooLarge      = errors.New("image too large")
)

// notFound maps a missing row to ErrNotFound and passes anything else through.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
