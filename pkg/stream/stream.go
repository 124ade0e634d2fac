package stream

// Publisher is a source of values that pushes them to attached Subscribers.
type Publisher[T any] interface {
	// Subscribe attaches a Subscriber to this Publisher. The Publisher calls
	// s.OnSubscribe with a Subscription before any other signal.
	Subscribe(s Subscriber[T])
}

// Subscriber receives the signals of one subscription to a Publisher.
//
// Signal order per subscription: OnSubscribe, zero or more OnNext, then at
// most one of OnError or OnComplete. Implementations must tolerate being
// called from the publisher's goroutine and must not block.
type Subscriber[T any] interface {
	// OnSubscribe is invoked first, before registration completes. The
	// Subscriber may synchronously call Request or Cancel on the Subscription
	// from within this callback.
	OnSubscribe(sub Subscription)

	// OnNext delivers one value.
	OnNext(value T)

	// OnError delivers the terminal failure signal. No further signals follow.
	OnError(err error)

	// OnComplete delivers the terminal completion signal. No further signals follow.
	OnComplete()
}

// Subscription is the consumer's handle for one attachment to a Publisher.
// It is safe for use from any goroutine.
type Subscription interface {
	// Request grants demand for up to n further values. n must be positive;
	// a non-positive n is a protocol violation and leaves demand unchanged.
	Request(n int64)

	// Cancel detaches the consumer from the Publisher. Idempotent.
	Cancel()
}
