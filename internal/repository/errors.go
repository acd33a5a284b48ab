package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	// For payment codes it also covers used and already-claimed rows,
	// so callers cannot distinguish a wrong code from a spent one.
	ErrNotFound = errors.New("entity not found")
)
