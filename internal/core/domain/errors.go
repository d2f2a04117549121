package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates the API rate limit was exceeded.
	// Connector error types wrap this sentinel so the engine can
	// classify rate limiting without knowing the concrete type.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthRequired indicates the forge requires authentication but
	// none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrUnknownHost indicates no client could be built for the
	// requested forge host.
	ErrUnknownHost = errors.New("unknown forge host")
)
