package event

import "sync"

// Subscription represents a feed subscription created by Feed.Subscribe.
// Unlike go-ethereum's Subscription, there is no background producer
// goroutine to manage: closing down is just detaching from the feed and
// closing the channel, guarded so repeated Unsubscribe calls are safe.
type Subscription[T any] struct {
	feed *Feed[T]
	ch   chan T
	once sync.Once
	done chan struct{}
}

// Chan returns the channel values are delivered on. It is closed after
// Unsubscribe, so a range loop over it terminates cleanly.
func (s *Subscription[T]) Chan() <-chan T { return s.ch }

// Unsubscribe detaches the subscription from its feed and closes its
// channel. Safe to call more than once and from multiple goroutines.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.feed.remove(s)
		close(s.done)
		close(s.ch)
	})
}

// Done returns a channel closed when Unsubscribe has been called, mirroring
// the shutdown-signal half of go-ethereum's Subscription.Err() without the
// error value: this feed never fails a subscription out from under the
// caller, it only ever unsubscribes on request.
func (s *Subscription[T]) Done() <-chan struct{} { return s.done }
