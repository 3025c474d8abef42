package vocabulary

import "errors"

var (
	// ErrNoSources is returned when no vocabulary source loaded successfully.
	ErrNoSources = errors.New("no vocabulary sources loaded")

	// ErrNotFound is returned when no concept matches a system and code.
	ErrNotFound = errors.New("concept not found")
)
