package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionBusy    = errors.New("a response is already in progress")
	ErrInvalidRequest = errors.New("invalid request")
)
