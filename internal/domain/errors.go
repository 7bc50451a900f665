package domain

import "errors"

var (
	// ErrInvalidTimestamp marks a required timestamp that is missing or zero.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrDataIntegrity marks source records that violate a model invariant,
	// such as a logout before its login or a negative idle duration.
	ErrDataIntegrity = errors.New("data integrity violation")

	// ErrInvalidWeek marks a (year, week) pair that is not a real ISO week.
	ErrInvalidWeek = errors.New("invalid ISO week")

	// ErrInvalidInput marks a request missing a required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionClosed is returned when a tracking operation needs an open session.
	ErrSessionClosed = errors.New("session already closed")
)
