package probe

import "errors"

// Errors delivered to consumers.
var (
	// ErrNoDemand terminates a subscriber that was sent a value while it
	// had no remaining demand, on a probe without the RequestOverflow
	// violation. The subscriber is detached before OnError; other
	// subscribers are unaffected.
	ErrNoDemand = errors.New("cannot deliver value due to lack of demand")
)

// Panic messages for driver misuse. The probe is driven by test code;
// handing it invalid input is a bug in the test and fails synchronously.
const (
	panicNilSubscriber = "probe: Subscribe with nil subscriber"
	panicNilValue      = "probe: emitted values must be non-nil unless AllowNullValues is set"
	panicNilError      = "probe: Error with nil error"
)
