package domain

import (
	"context"
	"time"
)

// ListingProvider fetches listings from one marketplace for a free-text
// query. An empty result is ([]Listing{}, nil); errors mean transport or
// upstream failure, never "no results".
type ListingProvider interface {
	Search(ctx context.Context, query string) ([]Listing, error)
	Source() Source
}

// Embedder converts texts into fixed-length vectors. EmbedBatch must return
// one vector per input text, in order, and is deterministic for a given
// model version. Implementations must be safe for concurrent use.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// CacheRepository defines the interface for caching completed comparisons
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
