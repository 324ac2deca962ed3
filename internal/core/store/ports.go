package store

import (
	"context"
	"time"
)

// Store defines the key-value persistence operations used by the scraping
// pipeline. It is a port that can be implemented by different backends
// (Redis, in-memory, etc.).
type Store interface {
	// Get retrieves a value by key.
	// Returns the stored value or an error if not found or on failure.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under the given key with the specified TTL.
	// TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys matching the given glob-style pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Ping checks if the backend is reachable.
	Ping(ctx context.Context) error

	// Close closes the backend connection.
	Close() error
}
