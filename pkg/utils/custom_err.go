package utils

import "errors"

var (
	ErrParse             = errors.New("could not parse trip request")
	ErrNoMatchingBooking = errors.New("no matching confirmed booking")
	ErrUnsupportedLive   = errors.New("modification not supported in live mode")
	ErrTripNotFound      = errors.New("trip not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrAlertNotFound     = errors.New("alert not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDatabaseError     = errors.New("database error")
)
