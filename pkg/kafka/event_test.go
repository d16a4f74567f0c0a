package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wishlistStoredData struct {
	Identifier string `json:"identifier"`
	Instance   string `json:"instance"`
}

func TestNewEvent(t *testing.T) {
	data := wishlistStoredData{Identifier: "user-42", Instance: "default"}

	event, err := NewEvent("wishlist.item.stored", "sess-1", "wishlist", "wishlist-service", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "wishlist.item.stored", event.EventType)
	assert.Equal(t, "sess-1", event.AggregateID)
	assert.Equal(t, "wishlist", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEvent_RoundTrip(t *testing.T) {
	event, err := NewEvent("wishlist.item.added", "sess-1", "wishlist", "wishlist-service",
		wishlistStoredData{Identifier: "user-42", Instance: "saved-for-later"})
	require.NoError(t, err)
	event.WithCorrelationID("corr-9").WithMetadata("instance", "saved-for-later")

	raw, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "corr-9", decoded.CorrelationID)
	assert.Equal(t, "saved-for-later", decoded.Metadata["instance"])

	var data wishlistStoredData
	require.NoError(t, decoded.UnmarshalData(&data))
	assert.Equal(t, "user-42", data.Identifier)
}
