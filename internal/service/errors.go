package service

import (
	"errors"

	"gorm.io/gorm"
)

// Common service errors
var (
	ErrLocationNotFound     = errors.New("location not found")
	ErrContactNotFound      = errors.New("contact not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrPersonNotFound       = errors.New("person not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrReportNotFound       = errors.New("report not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidCredentials covers both an unknown username and a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserContextRequired is returned when an operation needs an authenticated caller
	ErrUserContextRequired = errors.New("user context required")
)

// notFound maps gorm's not-found error to the given sentinel and passes anything else through
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
