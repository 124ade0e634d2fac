package probe

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/streamprobe/streamprobe-go/pkg/record"
	"github.com/streamprobe/streamprobe-go/pkg/stream"
)

// Publisher is a manually-driven publisher of values of type T. It emits
// nothing on its own: the test drives it with Next, Error and Complete and
// inspects how attached consumers behaved through the query and Assert
// methods.
//
// Driver methods are intended to be called from the test goroutine.
// Consumer-side calls (Request, Cancel, Subscribe) may arrive concurrently
// from any goroutine.
type Publisher[T any] struct {
	id         string
	violations Violation
	logger     record.Logger

	// mu serializes registry writers (add, remove, terminate) and guards
	// recordedErr. Readers snapshot the registry with a single atomic
	// load and never block.
	mu   sync.Mutex
	subs atomic.Pointer[[]*subscription[T]]

	// empty and term are sentinel registry states, distinguished from
	// live snapshots by pointer identity.
	empty *[]*subscription[T]
	term  *[]*subscription[T]

	// recordedErr is set at most once, by the Error call that terminates
	// the probe. Guarded by mu.
	recordedErr error

	cancels   atomic.Int64
	overflown atomic.Bool
	attachSeq atomic.Int64
}

// Option configures a Publisher.
type Option func(*options)

type options struct {
	id         string
	violations Violation
	logger     record.Logger
}

// WithViolations sets the protocol rules the probe is permitted to break.
func WithViolations(v ...Violation) Option {
	return func(o *options) {
		for _, each := range v {
			o.violations |= each
		}
	}
}

// WithLogger sets the transcript logger. Defaults to record.NoopLogger.
func WithLogger(logger record.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithID overrides the generated probe ID used in transcripts.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// New creates a compliant Publisher: nil values are rejected and demand is
// enforced on every delivery.
func New[T any](opts ...Option) *Publisher[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = record.NoopLogger{}
	}

	p := &Publisher[T]{
		id:         o.id,
		violations: o.violations,
		logger:     o.logger,
		empty:      &[]*subscription[T]{},
		term:       &[]*subscription[T]{},
	}
	p.subs.Store(p.empty)
	return p
}

// NewNoncompliant creates a Publisher permitted to break the given
// protocol rules. At least one violation must be provided.
func NewNoncompliant[T any](first Violation, rest ...Violation) *Publisher[T] {
	v := append([]Violation{first}, rest...)
	return New[T](WithViolations(v...))
}

// Subscribe attaches a consumer to the probe. The consumer receives
// OnSubscribe before it is registered, so demand requested or a
// cancellation issued from within that callback is honored. Subscribing
// to a terminated probe does not register the consumer: it immediately
// replays the recorded terminal signal.
//
// Subscribe panics if s is nil.
func (p *Publisher[T]) Subscribe(s stream.Subscriber[T]) {
	if s == nil {
		panic(panicNilSubscriber)
	}

	sub := &subscription[T]{
		actual: s,
		parent: p,
		seq:    p.attachSeq.Add(1),
	}
	s.OnSubscribe(sub)

	if p.add(sub) {
		// The consumer may have cancelled from inside OnSubscribe,
		// before the subscription was registered.
		if sub.cancelled.Load() {
			p.remove(sub)
		}
		p.capture(record.Event{
			Kind:        record.KindSubscribe,
			Sub:         sub.seq,
			Subscribers: p.SubscriberCount(),
		})
		return
	}

	// Terminated before this consumer could be registered: replay the
	// recorded outcome instead.
	err := p.recordedError()
	e := record.Event{Kind: record.KindReplay, Sub: sub.seq}
	if err != nil {
		e.Error = err.Error()
	}
	p.capture(e)

	if err != nil {
		s.OnError(err)
	} else {
		s.OnComplete()
	}
}

// Next delivers one value to every registered subscriber, in registration
// order, each under its own demand accounting. Emitting after termination
// delivers to nobody.
//
// Next panics if v is nil and the probe lacks the AllowNullValues
// violation. Next returns the publisher for chaining.
func (p *Publisher[T]) Next(v T) *Publisher[T] {
	if !p.violations.Has(AllowNullValues) && isNil(v) {
		panic(panicNilValue)
	}

	for _, sub := range *p.subs.Load() {
		sub.onNext(v)
	}
	return p
}

// Emit delivers each value via Next and then completes the probe.
func (p *Publisher[T]) Emit(values ...T) *Publisher[T] {
	for _, v := range values {
		p.Next(v)
	}
	return p.Complete()
}

// Error terminates the probe with err and forwards it to every subscriber
// registered at the moment of termination. Exactly one terminal call
// takes effect; if the probe is already terminated, Error is a no-op.
//
// Error panics if err is nil.
func (p *Publisher[T]) Error(err error) *Publisher[T] {
	if err == nil {
		panic(panicNilError)
	}

	snapshot, ok := p.terminate(err)
	if !ok {
		return p
	}

	p.capture(record.Event{Kind: record.KindError, Error: err.Error()})
	for _, sub := range snapshot {
		sub.onError(err)
	}
	return p
}

// Complete terminates the probe normally and forwards completion to every
// subscriber registered at the moment of termination. Exactly one
// terminal call takes effect; if the probe is already terminated,
// Complete is a no-op.
func (p *Publisher[T]) Complete() *Publisher[T] {
	snapshot, ok := p.terminate(nil)
	if !ok {
		return p
	}

	p.capture(record.Event{Kind: record.KindComplete})
	for _, sub := range snapshot {
		sub.onComplete()
	}
	return p
}

// add registers a subscription. It returns false if the probe has
// terminated, in which case the registry is left untouched.
func (p *Publisher[T]) add(s *subscription[T]) bool {
	if p.subs.Load() == p.term {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cur := p.subs.Load()
	if cur == p.term {
		return false
	}

	next := make([]*subscription[T], len(*cur)+1)
	copy(next, *cur)
	next[len(*cur)] = s
	p.subs.Store(&next)
	return true
}

// remove detaches a subscription, matched by identity. Removing from a
// terminated or empty registry, or removing an absent subscription, is a
// no-op.
func (p *Publisher[T]) remove(s *subscription[T]) {
	cur := p.subs.Load()
	if cur == p.term || cur == p.empty {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cur = p.subs.Load()
	if cur == p.term || cur == p.empty {
		return
	}

	idx := -1
	for i, entry := range *cur {
		if entry == s {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	if len(*cur) == 1 {
		p.subs.Store(p.empty)
		return
	}

	next := make([]*subscription[T], 0, len(*cur)-1)
	next = append(next, (*cur)[:idx]...)
	next = append(next, (*cur)[idx+1:]...)
	p.subs.Store(&next)
}

// terminate swaps the registry to the terminated state and returns the
// prior membership for notification. The second and later calls return
// ok=false and change nothing; notifying the returned snapshot outside
// the lock is the caller's job.
func (p *Publisher[T]) terminate(err error) ([]*subscription[T], bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.subs.Load() == p.term {
		return nil, false
	}

	if err != nil {
		p.recordedErr = err
	}
	prior := p.subs.Swap(p.term)
	return *prior, true
}

// recordedError returns the terminal error, or nil after Complete.
func (p *Publisher[T]) recordedError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.recordedErr
}

// SubscriberCount returns the number of currently registered subscribers.
func (p *Publisher[T]) SubscriberCount() int {
	return len(*p.subs.Load())
}

// MinRequested returns the smallest remaining demand across registered
// subscribers, or 0 when there are none.
func (p *Publisher[T]) MinRequested() int64 {
	subs := *p.subs.Load()
	if len(subs) == 0 {
		return 0
	}

	min := stream.Unbounded
	for _, s := range subs {
		if r := s.requested.Load(); r < min {
			min = r
		}
	}
	return min
}

// MaxRequested returns the largest remaining demand across registered
// subscribers, or 0 when there are none.
func (p *Publisher[T]) MaxRequested() int64 {
	subs := *p.subs.Load()

	var max int64
	for _, s := range subs {
		if r := s.requested.Load(); r > max {
			max = r
		}
	}
	return max
}

// Cancellations returns how many subscriptions have been cancelled over
// the probe's lifetime. Each subscription counts at most once.
func (p *Publisher[T]) Cancellations() int {
	return int(p.cancels.Load())
}

// HasOverflown reports whether any value was ever delivered to a
// subscriber with zero remaining demand. The flag is sticky.
func (p *Publisher[T]) HasOverflown() bool {
	return p.overflown.Load()
}

// IsTerminated reports whether Error or Complete has taken effect.
func (p *Publisher[T]) IsTerminated() bool {
	return p.subs.Load() == p.term
}

// ID returns the probe identifier used in transcripts.
func (p *Publisher[T]) ID() string {
	return p.id
}

// Violations returns the protocol relaxations the probe was built with.
func (p *Publisher[T]) Violations() Violation {
	return p.violations
}

// capture stamps and records one transcript event.
func (p *Publisher[T]) capture(e record.Event) {
	e.Timestamp = time.Now()
	e.ProbeID = p.id
	p.logger.Log(e)
}

// isNil reports whether v, viewed through its dynamic type, is nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// renderValue formats a delivered value for transcripts.
func renderValue(v any) string {
	return fmt.Sprintf("%v", v)
}

// Compile-time interface satisfaction check.
var _ stream.Publisher[any] = (*Publisher[any])(nil)
