package probe

import (
	"sync/atomic"

	"github.com/streamprobe/streamprobe-go/pkg/record"
	"github.com/streamprobe/streamprobe-go/pkg/stream"
)

// subscription links one subscriber to its probe and carries the demand
// counter consulted on every delivery. Registry membership is compared by
// pointer identity.
type subscription[T any] struct {
	actual stream.Subscriber[T]
	parent *Publisher[T]

	// seq numbers subscriptions per probe, for transcripts.
	seq int64

	// requested is the remaining demand. Never negative; saturates at
	// stream.Unbounded and stays there.
	requested atomic.Int64

	cancelled atomic.Bool
}

// Request grants demand to this subscription. Non-positive grants violate
// the protocol: they are recorded and otherwise ignored.
func (s *subscription[T]) Request(n int64) {
	if !stream.ValidRequest(n) {
		s.parent.capture(record.Event{
			Kind:   record.KindBadRequest,
			Sub:    s.seq,
			Demand: n,
		})
		return
	}

	stream.AddCap(&s.requested, n)
	s.parent.capture(record.Event{
		Kind:   record.KindRequest,
		Sub:    s.seq,
		Demand: n,
	})
}

// Cancel detaches this subscription from the probe. Cancel is idempotent;
// only the first call counts toward the probe's cancellation total.
func (s *subscription[T]) Cancel() {
	if !s.cancelled.CompareAndSwap(false, true) {
		return
	}

	s.parent.cancels.Add(1)
	s.parent.remove(s)
	s.parent.capture(record.Event{
		Kind:        record.KindCancel,
		Sub:         s.seq,
		Subscribers: s.parent.SubscriberCount(),
	})
}

// onNext delivers one value under the demand protocol. Positive demand is
// decremented by exactly one; demand at stream.Unbounded stays there; the
// counter never goes below zero. A delivery with zero demand either takes
// the overflow path, when the probe permits RequestOverflow, or detaches
// this subscriber and fails it with ErrNoDemand.
func (s *subscription[T]) onNext(value T) {
	for {
		r := s.requested.Load()
		switch {
		case r == stream.Unbounded:
			// Unbounded demand is never decremented.
		case r > 0:
			if !s.requested.CompareAndSwap(r, r-1) {
				continue
			}
		case s.parent.violations.Has(RequestOverflow):
			s.parent.overflown.Store(true)
			s.parent.capture(record.Event{
				Kind:  record.KindOverflow,
				Sub:   s.seq,
				Value: renderValue(value),
			})
			s.actual.OnNext(value)
			return
		default:
			s.parent.remove(s)
			s.parent.capture(record.Event{
				Kind:  record.KindDemandFault,
				Sub:   s.seq,
				Error: ErrNoDemand.Error(),
			})
			s.actual.OnError(ErrNoDemand)
			return
		}

		s.parent.capture(record.Event{
			Kind:  record.KindNext,
			Sub:   s.seq,
			Value: renderValue(value),
		})
		s.actual.OnNext(value)
		return
	}
}

// onError forwards the terminal error to the subscriber.
func (s *subscription[T]) onError(err error) {
	s.actual.OnError(err)
}

// onComplete forwards completion to the subscriber.
func (s *subscription[T]) onComplete() {
	s.actual.OnComplete()
}

// Compile-time interface satisfaction check.
var _ stream.Subscription = (*subscription[any])(nil)
