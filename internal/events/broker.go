// Package events fans journal change notifications out to in-process
// subscribers.
package events

import (
	"sync/atomic"
	"time"
)

// Kind names a journal change.
type Kind string

// JournalReindexed is published after a changed journal was re-read into the
// index.
const JournalReindexed Kind = "journal.reindexed"

// Event is one change notification.
type Event struct {
	Kind    Kind
	Journal string
	At      time.Time
}

// Broker delivers published events to every subscriber.
//
// A single event loop owns the subscriber set. Public methods talk to it
// over channels, so no mutexes are required.
type Broker struct {
	subscribeCh   chan chan Event
	unsubscribeCh chan (<-chan Event)
	publishCh     chan Event
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker.
func NewBroker() *Broker {
	b := &Broker{
		subscribeCh:   make(chan chan Event),
		unsubscribeCh: make(chan (<-chan Event)),
		publishCh:     make(chan Event, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	subs := make(map[<-chan Event]chan Event)

	for {
		select {
		case <-b.stopCh:
			for _, ch := range subs {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			subs[ch] = ch

		case sub := <-b.unsubscribeCh:
			if ch, ok := subs[sub]; ok {
				delete(subs, sub)
				close(ch)
			}

		case ev := <-b.publishCh:
			for _, ch := range subs {
				select {
				case ch <- ev:
				default:
					// Subscriber buffer full; drop rather than stall the loop.
				}
			}

		case resp := <-b.countReqCh:
			resp <- len(subs)
		}
	}
}

// Close stops the event loop and closes all subscriber channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a new subscriber and returns its channel. The channel
// is closed by Unsubscribe or Close.
func (b *Broker) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(sub <-chan Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- sub:
	case <-b.stopped:
	}
}

// SubscriberCount returns the number of live subscribers.
func (b *Broker) SubscriberCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends ev to all subscribers. A zero At is stamped with the
// current time.
func (b *Broker) Publish(ev Event) {
	if b.closed.Load() {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case b.publishCh <- ev:
	case <-b.stopped:
	}
}
