package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	accountID := uuid.New()

	ch := hub.Subscribe(accountID)
	defer hub.Unsubscribe(accountID, ch)

	hub.Publish(accountID, "login", map[string]any{"name": "John"})

	require.Len(t, ch, 1)
	evt := <-ch
	assert.Equal(t, "login", evt.Name)
	assert.Equal(t, "John", evt.Payload["name"])
	assert.False(t, evt.Timestamp.IsZero())
}

func TestPublishIsScopedToRoom(t *testing.T) {
	hub := NewHub()
	alice := uuid.New()
	bob := uuid.New()

	aliceCh := hub.Subscribe(alice)
	bobCh := hub.Subscribe(bob)
	defer hub.Unsubscribe(alice, aliceCh)
	defer hub.Unsubscribe(bob, bobCh)

	hub.Publish(alice, "login", nil)

	assert.Len(t, aliceCh, 1)
	assert.Len(t, bobCh, 0)
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub()

	hub.Publish(uuid.New(), "login", nil)
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	accountID := uuid.New()

	ch := hub.Subscribe(accountID)
	defer hub.Unsubscribe(accountID, ch)

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(accountID, "ping", nil)
	}

	assert.Len(t, ch, subscriberBuffer)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	accountID := uuid.New()

	ch := hub.Subscribe(accountID)
	hub.Unsubscribe(accountID, ch)

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe is a no-op.
	hub.Publish(accountID, "login", nil)
}
