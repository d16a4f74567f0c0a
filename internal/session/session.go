// Package session defines the scoped key-value store a wishlist manager
// keeps its per-instance content in. Implementations are bound to one
// session; keys are namespaced by the caller ("wishlist.default", ...).
package session

import "context"

// Store is a scoped key-value store for one session.
type Store interface {
	// Get returns the value for key. The second return is false when the
	// key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put writes the value under key, replacing any existing value.
	Put(ctx context.Context, key string, value []byte) error

	// Has reports whether key is present.
	Has(ctx context.Context, key string) (bool, error)

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
