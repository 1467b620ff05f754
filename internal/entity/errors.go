package entity

import "errors"

// Domain errors
var (
	// Commerce API errors
	ErrAuth     = errors.New("authorization failed")
	ErrNotFound = errors.New("not found")
	ErrRequest  = errors.New("invalid request")

	// Chat transport errors
	ErrTransport = errors.New("chat transport failure")

	// Dialogue errors
	ErrUnknownState = errors.New("unknown dialogue state")
)
