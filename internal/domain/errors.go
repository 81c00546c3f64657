package domain

import "errors"

// Sentinel errors shared across the vocabulary store, aggregator, and HTTP
// layer. Handlers map them to status codes with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("service unavailable")
)
