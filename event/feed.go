// Package event implements a lightweight, generic publish/subscribe bus
// used to observe the update queue from the outside: commit results,
// processing passes, anything a host wants to watch without the core
// depending on it. It is a generic, non-blocking alternative to
// go-ethereum's reflection-based event.Feed: subscribers get a buffered
// channel and a slow or absent reader never stalls the publisher.
package event

import "sync"

// Feed delivers values of type T to any number of subscribers. The zero
// value is ready to use. A Feed with no subscribers is cheap: Send is a
// no-op scan over an empty slice.
type Feed[T any] struct {
	mu   sync.Mutex
	subs []*Subscription[T]
}

// Subscribe registers a new subscription with the given channel buffer
// size and returns it. The caller must eventually call Unsubscribe.
func (f *Feed[T]) Subscribe(bufferSize int) *Subscription[T] {
	sub := &Subscription[T]{
		feed: f,
		ch:   make(chan T, bufferSize),
		done: make(chan struct{}),
	}
	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()
	return sub
}

// Send delivers value to every current subscriber and returns how many
// received it. Delivery is non-blocking per subscriber: a subscriber whose
// buffer is full is skipped for this value rather than stalling the
// sender, so one slow reader never blocks the rest of the feed.
func (f *Feed[T]) Send(value T) int {
	f.mu.Lock()
	subs := make([]*Subscription[T], len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	delivered := 0
	for _, sub := range subs {
		select {
		case sub.ch <- value:
			delivered++
		default:
		}
	}
	return delivered
}

func (f *Feed[T]) remove(sub *Subscription[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subs {
		if s == sub {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return
		}
	}
}
