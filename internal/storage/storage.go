// Package storage defines the durable table a wishlist instance can be
// parked in under an external identifier.
package storage

import (
	"context"
	"time"
)

// StoredWishlist is one durable record: a serialized instance content blob
// keyed by an external identifier.
type StoredWishlist struct {
	Identifier string    `json:"identifier"`
	Instance   string    `json:"instance"`
	Content    []byte    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository is the durable table contract. Identifier is unique among
// currently stored records; restore consumes the record via
// DeleteByIdentifier.
type Repository interface {
	Insert(ctx context.Context, rec *StoredWishlist) error
	FindByIdentifier(ctx context.Context, identifier string) (*StoredWishlist, error)
	DeleteByIdentifier(ctx context.Context, identifier string) error
	Exists(ctx context.Context, identifier string) (bool, error)
}
