package sink

import (
	"sync"

	"github.com/streamprobe/streamprobe-go/pkg/stream"
)

// Option configures a Recorder.
type Option func(*config)

type config struct {
	initialDemand int64
	demandOnNext  int64
	cancelAfter   int
}

// WithInitialDemand requests n as soon as the recorder is subscribed.
// Pass stream.Unbounded for an unbounded consumer.
func WithInitialDemand(n int64) Option {
	return func(c *config) {
		c.initialDemand = n
	}
}

// WithDemandOnNext requests n again after every received value.
func WithDemandOnNext(n int64) Option {
	return func(c *config) {
		c.demandOnNext = n
	}
}

// WithCancelAfter cancels the subscription once n values have been
// received.
func WithCancelAfter(n int) Option {
	return func(c *config) {
		c.cancelAfter = n
	}
}

// Recorder is a subscriber that records every signal it receives. Its
// demand policy is fixed at construction; beyond that the test can drive
// the subscription manually through Request and Cancel.
//
// A Recorder must not be subscribed more than once.
type Recorder[T any] struct {
	cfg config

	mu        sync.Mutex
	sub       stream.Subscription
	values    []T
	err       error
	completed bool

	done     chan struct{}
	doneOnce sync.Once
}

// NewRecorder creates a Recorder with the given demand policy. Without
// options the recorder requests nothing and records whatever arrives.
func NewRecorder[T any](opts ...Option) *Recorder[T] {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Recorder[T]{
		cfg:  cfg,
		done: make(chan struct{}),
	}
}

// OnSubscribe stores the subscription and issues the configured initial
// demand.
func (r *Recorder[T]) OnSubscribe(s stream.Subscription) {
	r.mu.Lock()
	r.sub = s
	r.mu.Unlock()

	if r.cfg.initialDemand != 0 {
		s.Request(r.cfg.initialDemand)
	}
}

// OnNext records the value and applies the demand policy.
func (r *Recorder[T]) OnNext(v T) {
	r.mu.Lock()
	r.values = append(r.values, v)
	count := len(r.values)
	sub := r.sub
	r.mu.Unlock()

	if r.cfg.cancelAfter > 0 && count >= r.cfg.cancelAfter {
		if sub != nil {
			sub.Cancel()
		}
		// Nothing further will arrive after a cancellation; release
		// waiters.
		r.doneOnce.Do(func() { close(r.done) })
		return
	}
	if r.cfg.demandOnNext > 0 && sub != nil {
		sub.Request(r.cfg.demandOnNext)
	}
}

// OnError records the terminal error and releases Done waiters.
func (r *Recorder[T]) OnError(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	r.doneOnce.Do(func() { close(r.done) })
}

// OnComplete records completion and releases Done waiters.
func (r *Recorder[T]) OnComplete() {
	r.mu.Lock()
	r.completed = true
	r.mu.Unlock()
	r.doneOnce.Do(func() { close(r.done) })
}

// Request grants demand manually. It is a no-op before the recorder is
// subscribed.
func (r *Recorder[T]) Request(n int64) {
	r.mu.Lock()
	sub := r.sub
	r.mu.Unlock()

	if sub != nil {
		sub.Request(n)
	}
}

// Cancel cancels the subscription manually. It is a no-op before the
// recorder is subscribed.
func (r *Recorder[T]) Cancel() {
	r.mu.Lock()
	sub := r.sub
	r.mu.Unlock()

	if sub != nil {
		sub.Cancel()
		r.doneOnce.Do(func() { close(r.done) })
	}
}

// Values returns a copy of the received values in arrival order.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

// Len returns how many values have been received.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.values)
}

// Err returns the terminal error, or nil.
func (r *Recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Completed reports whether the stream completed normally.
func (r *Recorder[T]) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

// Terminated reports whether a terminal signal (error or completion) has
// been received. A self-issued cancellation does not count as terminal.
func (r *Recorder[T]) Terminated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed || r.err != nil
}

// Done returns a channel closed once the stream terminates or the
// recorder cancels its own subscription.
func (r *Recorder[T]) Done() <-chan struct{} {
	return r.done
}

// Compile-time interface satisfaction check.
var _ stream.Subscriber[any] = (*Recorder[any])(nil)
