// Package stream defines the push-based streaming protocol contract shared by
// publishers and the consumers under test.
//
// The contract follows the Reactive Streams handshake:
//   - A Publisher accepts a Subscriber via Subscribe.
//   - The Publisher hands the Subscriber a Subscription via OnSubscribe before
//     any other signal.
//   - The Subscriber declares demand with Subscription.Request and may stop the
//     stream at any time with Subscription.Cancel.
//   - The Publisher pushes at most as many OnNext signals as demanded, followed
//     by exactly one terminal signal (OnError or OnComplete).
//
// # Demand Arithmetic
//
// Demand is tracked as a non-negative int64. Unbounded is the sentinel for
// effectively infinite demand; once a counter reaches Unbounded it stays there.
// AddCap provides the saturating addition used to grant demand safely from
// concurrent goroutines.
//
// This package holds only the contract and the demand helpers. The probe
// package provides the instrumented Publisher implementation used in tests.
package stream
