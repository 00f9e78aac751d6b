package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound       = errors.New("participant not found")
	ErrUnsupportedDSN = errors.New("unsupported database url")
	ErrUnavailable    = errors.New("participant store unavailable")
)
