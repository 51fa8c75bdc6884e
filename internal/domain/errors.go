package domain

import "errors"

var (
	ErrProviderConfig      = errors.New("payment provider is not configured")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrPersistence         = errors.New("persistence failed")
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrLockNotAcquired     = errors.New("reconcile lock is held by another pass")
)
