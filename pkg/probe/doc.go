// Package probe provides a manually-driven, instrumented publisher for
// exercising stream consumers in tests.
//
// A Publisher emits nothing on its own. The test drives it step by step
// (Next, Error, Complete) and the probe tracks how attached consumers
// behave: how much demand they granted, whether they cancelled, and
// whether a value was ever pushed past their demand.
//
// # Driving a probe
//
//	pub := probe.New[string]()
//	pub.Subscribe(consumer)
//
//	pub.Next("a").Next("b").Complete()
//
//	pub.AssertSubscriberCount(t, 1)
//	pub.AssertNoRequestOverflow(t)
//
// # Demand accounting
//
// Each subscription carries a demand counter. Request(n) adds to it,
// saturating at stream.Unbounded; a counter that reached Unbounded stays
// there and is never decremented. Delivering a value decrements the
// counter by one, never below zero.
//
// A consumer that is sent a value while it has no remaining demand is
// detached and receives ErrNoDemand, unless the probe was built with the
// RequestOverflow violation, in which case the value is delivered anyway
// and the probe records the overflow.
//
// # Violations
//
// Violations relax protocol rules the probe otherwise enforces. They are
// fixed at construction:
//
//	pub := probe.NewNoncompliant[string](probe.RequestOverflow)
//
// # Terminal signals
//
// Error and Complete terminate the probe exactly once; redundant terminal
// calls are no-ops. Consumers that attach after termination are not
// registered: they immediately receive the recorded terminal signal.
//
// # Misuse
//
// Driver mistakes are bugs in the test itself and panic immediately:
// subscribing a nil consumer, emitting nil without AllowNullValues, or
// terminating with a nil error. Consumer protocol violations never panic;
// they are recorded or isolated to the offending consumer.
package probe
