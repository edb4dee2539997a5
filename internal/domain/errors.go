package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrEmbeddingUnavailable is returned when the embedding backend cannot be reached
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrNoViableMatch is returned when no listing pair passes the hard matching gates
	ErrNoViableMatch = errors.New("no viable cross-source match")

	// ErrSourceUnavailable is returned when a listing source request fails
	ErrSourceUnavailable = errors.New("listing source request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
