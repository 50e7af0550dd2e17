package event

import "sync"

const subscriberBuffer = 16

// Bus fans events out to in-process subscribers (the websocket feed, tests).
// Publishing never blocks the engine: a subscriber that falls behind its
// buffer drops events rather than stalling a ledger call.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[chan Event]struct{}),
	}
}

// Subscribe registers a new listener. The returned cancel func must be called
// when the listener goes away; it closes the channel.
func (that *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	that.mu.Lock()
	that.subs[ch] = struct{}{}
	that.mu.Unlock()

	cancel := func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		if _, ok := that.subs[ch]; ok {
			delete(that.subs, ch)
			close(ch)
		}
	}

	return ch, cancel
}

// Publish delivers one event to every current subscriber.
func (that *Bus) Publish(evt Event) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for ch := range that.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
