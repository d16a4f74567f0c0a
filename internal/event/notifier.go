// Package event publishes wishlist domain events. The manager treats
// notifications as fire-and-forget: publish failures are logged, never
// surfaced to the caller.
package event

import (
	"context"

	"github.com/Mallowslabby/shopee/internal/domain"
)

// Notifier receives the five wishlist domain events.
type Notifier interface {
	ItemAdded(ctx context.Context, sessionID, instance string, item *domain.Item)
	ItemUpdated(ctx context.Context, sessionID, instance string, item *domain.Item)
	ItemRemoved(ctx context.Context, sessionID, instance string, item *domain.Item)
	Stored(ctx context.Context, sessionID, identifier, instance string)
	Restored(ctx context.Context, sessionID, identifier, instance string)
}

// Nop is a Notifier that discards all events.
type Nop struct{}

func (Nop) ItemAdded(context.Context, string, string, *domain.Item)   {}
func (Nop) ItemUpdated(context.Context, string, string, *domain.Item) {}
func (Nop) ItemRemoved(context.Context, string, string, *domain.Item) {}
func (Nop) Stored(context.Context, string, string, string)            {}
func (Nop) Restored(context.Context, string, string, string)          {}
