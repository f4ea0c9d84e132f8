package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a key is missing or has already expired.
var ErrNotFound = errors.New("key not found")

type Store interface {
	// Add stores a value under a key, overwriting any existing entry.
	// ttl <= 0 means the entry never expires.
	Add(key string, value any, ttl time.Duration) error

	// Update replaces the value and TTL of an existing key
	// (silently does nothing when the key is absent)
	Update(key string, value any, ttl time.Duration) error

	// Get retrieves the value for a key
	Get(key string) (any, error)

	// GetAll returns every entry that survived the expiration sweep
	GetAll() (map[string]Entry, error)

	// Exists checks if a key exists and hasn't expired
	Exists(key string) bool

	// Remove deletes a key (no-op when absent)
	Remove(key string) error

	// RemoveAll deletes every entry
	RemoveAll() error

	// Expire marks an existing key as expired as of now (no-op when absent)
	Expire(key string) error

	// ExpireAll marks every current entry as expired as of now
	ExpireAll() error

	// ExpiredDetails returns the entries that are currently expired
	ExpiredDetails() (map[string]Entry, error)

	// ActiveDetails returns the entries that are not expired
	ActiveDetails() (map[string]Entry, error)

	// CleanupExpired deletes every currently-expired entry
	CleanupExpired() error
}
