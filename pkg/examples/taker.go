package examples

import (
	"sync"

	"github.com/streamprobe/streamprobe-go/pkg/stream"
)

// Taker consumes exactly n values and then cancels its subscription. It
// requests its full quota up front, so a publisher with enough values
// ready can satisfy it in one burst.
//
// If the publisher terminates before n values arrive the Taker keeps
// whatever it received and records the terminal signal instead of
// cancelling.
//
// A Taker must not be subscribed more than once.
type Taker[T any] struct {
	n int

	mu        sync.Mutex
	sub       stream.Subscription
	values    []T
	err       error
	completed bool
}

// NewTaker creates a Taker for the first n values. A Taker with n <= 0
// cancels immediately on subscribe without consuming anything.
func NewTaker[T any](n int) *Taker[T] {
	return &Taker[T]{n: n}
}

// OnSubscribe requests the full quota, or cancels right away for an
// empty quota.
func (t *Taker[T]) OnSubscribe(s stream.Subscription) {
	t.mu.Lock()
	t.sub = s
	t.mu.Unlock()

	if t.n <= 0 {
		s.Cancel()
		return
	}
	s.Request(int64(t.n))
}

// OnNext records the value and cancels once the quota is reached.
func (t *Taker[T]) OnNext(value T) {
	t.mu.Lock()
	t.values = append(t.values, value)
	done := len(t.values) >= t.n
	s := t.sub
	t.mu.Unlock()

	if done {
		s.Cancel()
	}
}

// OnError records the terminal failure.
func (t *Taker[T]) OnError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// OnComplete records normal completion.
func (t *Taker[T]) OnComplete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed = true
}

// Values returns a copy of the values received so far.
func (t *Taker[T]) Values() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, len(t.values))
	copy(out, t.values)
	return out
}

// Err returns the terminal error, or nil.
func (t *Taker[T]) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Completed reports whether the subscription completed normally before
// the quota was reached.
func (t *Taker[T]) Completed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed
}

var _ stream.Subscriber[any] = (*Taker[any])(nil)
