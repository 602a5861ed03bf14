package notify

import (
	"sync"
	"time"
)

// EventType identifies a session or authorization state change
type EventType string

const (
	EventSignedIn           EventType = "signed_in"
	EventSignedOut          EventType = "signed_out"
	EventRoleChanged        EventType = "role_changed"
	EventProfileProvisioned EventType = "profile_provisioned"
)

// Event is pushed to subscribed clients so they can re-resolve their
// session and role state.
type Event struct {
	Type   EventType `json:"type"`
	UserID string    `json:"user_id"`
	Role   string    `json:"role,omitempty"`
	At     time.Time `json:"at"`
}

// Hub fans session events out to subscribers. Subscribe always pairs with
// the returned release func; releasing twice is safe.
type Hub struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The release func removes the subscription
// and closes the channel; it must be called on every exit path.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan Event, 16)
	h.subs[id] = ch

	var once sync.Once
	release := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
	return ch, release
}

// Publish delivers an event to every subscriber. Slow subscribers drop
// events rather than block publishers.
func (h *Hub) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Len returns the number of active subscriptions
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
