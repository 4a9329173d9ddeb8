package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const subscriberBuffer = 8

type Event struct {
	Name      string         `json:"event"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Publisher delivers realtime events to an account's subscribers.
// Delivery is fire-and-forget: it never blocks the caller and never fails.
type Publisher interface {
	Publish(accountID uuid.UUID, event string, payload map[string]any)
}

// Hub fans events out to per-account rooms. An event published for one
// account is only seen by that account's subscribers.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[chan Event]struct{}),
	}
}

func (h *Hub) Subscribe(accountID uuid.UUID) chan Event {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[accountID]
	if !ok {
		room = make(map[chan Event]struct{})
		h.rooms[accountID] = room
	}
	room[ch] = struct{}{}

	return ch
}

func (h *Hub) Unsubscribe(accountID uuid.UUID, ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[accountID]
	if !ok {
		return
	}

	if _, ok := room[ch]; ok {
		delete(room, ch)
		close(ch)
	}
	if len(room) == 0 {
		delete(h.rooms, accountID)
	}
}

// Publish sends to every subscriber in the account's room. Subscribers
// with a full buffer miss the event rather than blocking the sender.
func (h *Hub) Publish(accountID uuid.UUID, event string, payload map[string]any) {
	evt := Event{
		Name:      event,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.rooms[accountID] {
		select {
		case ch <- evt:
		default:
		}
	}
}
