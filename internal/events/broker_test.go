package events

import (
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	if got := b.SubscriberCount(); got != 0 {
		t.Fatalf("SubscriberCount() = %d, want 0", got)
	}
	ch := b.Subscribe()
	if got := b.SubscriberCount(); got != 1 {
		t.Fatalf("SubscriberCount() = %d, want 1", got)
	}
	b.Unsubscribe(ch)
	if got := b.SubscriberCount(); got != 0 {
		t.Fatalf("SubscriberCount() after unsubscribe = %d, want 0", got)
	}
	if _, ok := <-ch; ok {
		t.Error("channel still open after unsubscribe")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	first, second := b.Subscribe(), b.Subscribe()

	b.Publish(Event{Kind: JournalReindexed, Journal: "/tmp/journal.md"})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case ev := <-ch:
			if ev.Kind != JournalReindexed || ev.Journal != "/tmp/journal.md" {
				t.Errorf("event = %+v", ev)
			}
			if ev.At.IsZero() {
				t.Error("event At not stamped")
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for event")
		}
	}
}

func TestPublishKeepsTimestamp(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()

	at := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	b.Publish(Event{Kind: JournalReindexed, At: at})

	select {
	case ev := <-ch:
		if !ev.At.Equal(at) {
			t.Errorf("At = %v, want %v", ev.At, at)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestCloseClosesSubscribers(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("received event, want closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}

	// Safe after close.
	b.Close()
	b.Publish(Event{Kind: JournalReindexed})
	if got := b.SubscriberCount(); got != 0 {
		t.Errorf("SubscriberCount() after close = %d, want 0", got)
	}
	if _, ok := <-b.Subscribe(); ok {
		t.Error("Subscribe after close returned an open channel")
	}
}
