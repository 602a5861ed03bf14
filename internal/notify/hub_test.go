package notify

import (
	"testing"
)

func TestPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	events, release := hub.Subscribe()
	defer release()

	hub.Publish(Event{Type: EventSignedIn, UserID: "u-1"})

	select {
	case ev := <-events:
		if ev.Type != EventSignedIn || ev.UserID != "u-1" {
			t.Fatalf("unexpected event: %+v", ev)
		}
		if ev.At.IsZero() {
			t.Fatalf("expected timestamp stamped on publish")
		}
	default:
		t.Fatalf("expected event delivered")
	}
}

func TestReleaseRemovesSubscription(t *testing.T) {
	hub := NewHub()
	events, release := hub.Subscribe()

	if hub.Len() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.Len())
	}

	release()
	if hub.Len() != 0 {
		t.Fatalf("expected 0 subscribers after release, got %d", hub.Len())
	}

	// Channel is closed so receives complete immediately
	if _, ok := <-events; ok {
		t.Fatalf("expected closed channel after release")
	}

	// Releasing twice must not panic
	release()
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	_, release := hub.Subscribe()
	defer release()

	// Overflow the subscriber buffer; publishes must not block
	for i := 0; i < 100; i++ {
		hub.Publish(Event{Type: EventRoleChanged, UserID: "u-1"})
	}
}
