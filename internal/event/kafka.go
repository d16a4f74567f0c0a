package event

import (
	"context"
	"log/slog"

	"github.com/Mallowslabby/shopee/internal/domain"
	pkgkafka "github.com/Mallowslabby/shopee/pkg/kafka"
)

// Kafka topics for wishlist domain events.
const (
	TopicItemAdded   = "wishlist.item.added"
	TopicItemUpdated = "wishlist.item.updated"
	TopicItemRemoved = "wishlist.item.removed"
	TopicStored      = "wishlist.stored"
	TopicRestored    = "wishlist.restored"
)

const (
	aggregateTypeWishlist = "wishlist"
	sourceWishlistService = "wishlist-service"
)

// ItemEventData is the payload for item.added/updated/removed events.
type ItemEventData struct {
	SessionID string       `json:"session_id"`
	Instance  string       `json:"instance"`
	Item      *domain.Item `json:"item"`
}

// StoreEventData is the payload for stored/restored events.
type StoreEventData struct {
	SessionID  string `json:"session_id"`
	Identifier string `json:"identifier"`
	Instance   string `json:"instance"`
}

// KafkaNotifier publishes wishlist events to Kafka.
type KafkaNotifier struct {
	producer *pkgkafka.Producer
	logger   *slog.Logger
}

// NewKafkaNotifier creates a notifier backed by the given producer.
func NewKafkaNotifier(producer *pkgkafka.Producer, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		logger:   logger,
	}
}

func (n *KafkaNotifier) publish(ctx context.Context, topic, sessionID string, data any) {
	evt, err := pkgkafka.NewEvent(topic, sessionID, aggregateTypeWishlist, sourceWishlistService, data)
	if err != nil {
		n.logger.ErrorContext(ctx, "create wishlist event",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := n.producer.Publish(ctx, topic, evt); err != nil {
		n.logger.ErrorContext(ctx, "publish wishlist event",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
	}
}

// ItemAdded publishes wishlist.item.added.
func (n *KafkaNotifier) ItemAdded(ctx context.Context, sessionID, instance string, item *domain.Item) {
	n.publish(ctx, TopicItemAdded, sessionID, ItemEventData{SessionID: sessionID, Instance: instance, Item: item})
}

// ItemUpdated publishes wishlist.item.updated.
func (n *KafkaNotifier) ItemUpdated(ctx context.Context, sessionID, instance string, item *domain.Item) {
	n.publish(ctx, TopicItemUpdated, sessionID, ItemEventData{SessionID: sessionID, Instance: instance, Item: item})
}

// ItemRemoved publishes wishlist.item.removed.
func (n *KafkaNotifier) ItemRemoved(ctx context.Context, sessionID, instance string, item *domain.Item) {
	n.publish(ctx, TopicItemRemoved, sessionID, ItemEventData{SessionID: sessionID, Instance: instance, Item: item})
}

// Stored publishes wishlist.stored.
func (n *KafkaNotifier) Stored(ctx context.Context, sessionID, identifier, instance string) {
	n.publish(ctx, TopicStored, sessionID, StoreEventData{SessionID: sessionID, Identifier: identifier, Instance: instance})
}

// Restored publishes wishlist.restored.
func (n *KafkaNotifier) Restored(ctx context.Context, sessionID, identifier, instance string) {
	n.publish(ctx, TopicRestored, sessionID, StoreEventData{SessionID: sessionID, Identifier: identifier, Instance: instance})
}
