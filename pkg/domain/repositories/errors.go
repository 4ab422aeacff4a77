package repositories

import "errors"

var (
	// ErrNotFound is returned when a referenced entry, door or part does not exist
	ErrNotFound = errors.New("not found")
	// ErrLeafMissing is returned when an entry has lost the leaf a handing change copies from
	ErrLeafMissing = errors.New("door leaf missing")
)
