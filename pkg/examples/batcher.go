package examples

import (
	"sync"

	"github.com/streamprobe/streamprobe-go/pkg/stream"
)

// Batcher groups received values into fixed-size batches and hands each
// full batch to a flush callback. It requests exactly one batch worth of
// demand at a time: the next window is requested only after the previous
// batch has been flushed, so the publisher can never run more than one
// batch ahead of the consumer.
//
// On a terminal signal any buffered partial batch is flushed before the
// terminal state becomes observable. The flush callback runs on the
// publisher's goroutine and must not block.
//
// A Batcher must not be subscribed more than once.
type Batcher[T any] struct {
	size  int
	flush func([]T)

	mu        sync.Mutex
	sub       stream.Subscription
	batch     []T
	err       error
	completed bool
}

// NewBatcher creates a Batcher that flushes every size values. A size
// below one is treated as one.
func NewBatcher[T any](size int, flush func([]T)) *Batcher[T] {
	if size < 1 {
		size = 1
	}
	return &Batcher[T]{
		size:  size,
		flush: flush,
		batch: make([]T, 0, size),
	}
}

// OnSubscribe stores the subscription and requests the first batch window.
func (b *Batcher[T]) OnSubscribe(s stream.Subscription) {
	b.mu.Lock()
	b.sub = s
	b.mu.Unlock()

	s.Request(int64(b.size))
}

// OnNext buffers the value. Once the buffer holds a full batch it is
// flushed and the next window is requested.
func (b *Batcher[T]) OnNext(value T) {
	b.mu.Lock()
	b.batch = append(b.batch, value)
	var full []T
	if len(b.batch) == b.size {
		full = b.batch
		b.batch = make([]T, 0, b.size)
	}
	s := b.sub
	b.mu.Unlock()

	if full != nil {
		b.flush(full)
		s.Request(int64(b.size))
	}
}

// OnError flushes any partial batch and records the failure.
func (b *Batcher[T]) OnError(err error) {
	b.mu.Lock()
	rest := b.batch
	b.batch = nil
	b.err = err
	b.mu.Unlock()

	if len(rest) > 0 {
		b.flush(rest)
	}
}

// OnComplete flushes any partial batch and records completion.
func (b *Batcher[T]) OnComplete() {
	b.mu.Lock()
	rest := b.batch
	b.batch = nil
	b.completed = true
	b.mu.Unlock()

	if len(rest) > 0 {
		b.flush(rest)
	}
}

// Pending returns how many values are buffered but not yet flushed.
func (b *Batcher[T]) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.batch)
}

// Err returns the terminal error, or nil.
func (b *Batcher[T]) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Completed reports whether the subscription completed normally.
func (b *Batcher[T]) Completed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.completed
}

var _ stream.Subscriber[any] = (*Batcher[any])(nil)
