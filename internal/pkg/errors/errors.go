package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSelfMerge is returned when a merge names the same work on both sides.
	ErrSelfMerge = errors.New("cannot merge a work into itself")
)
