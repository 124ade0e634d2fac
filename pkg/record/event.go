package record

import (
	"time"
)

// Event represents one protocol interaction captured from a probe.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the interaction occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ProbeID identifies the probe instance (UUID unless overridden).
	ProbeID string `cbor:"2,keyasint"`

	// Kind classifies the interaction.
	Kind Kind `cbor:"3,keyasint"`

	// Sub is the per-probe subscription sequence number, when the
	// interaction concerns a single subscription.
	Sub int64 `cbor:"4,keyasint,omitempty"`

	// Demand is the amount requested, for Request and BadRequest events.
	Demand int64 `cbor:"5,keyasint,omitempty"`

	// Value is the rendered form of the delivered value, for Next and
	// Overflow events.
	Value string `cbor:"6,keyasint,omitempty"`

	// Error is the error text, for Error, Replay and DemandFault events.
	Error string `cbor:"7,keyasint,omitempty"`

	// Subscribers is the registry size after the interaction, for
	// Subscribe and Cancel events.
	Subscribers int `cbor:"8,keyasint,omitempty"`
}

// Kind classifies a protocol interaction.
type Kind uint8

const (
	// KindSubscribe indicates a consumer attached and was registered.
	KindSubscribe Kind = 0

	// KindReplay indicates a consumer attached after termination and was
	// replayed the recorded terminal outcome instead of being registered.
	KindReplay Kind = 1

	// KindRequest indicates a demand grant.
	KindRequest Kind = 2

	// KindBadRequest indicates a rejected non-positive demand grant.
	KindBadRequest Kind = 3

	// KindCancel indicates a subscription cancellation.
	KindCancel Kind = 4

	// KindNext indicates a value delivery within requested demand.
	KindNext Kind = 5

	// KindOverflow indicates a value delivery beyond requested demand,
	// permitted by the RequestOverflow violation.
	KindOverflow Kind = 6

	// KindDemandFault indicates a consumer was detached and failed for
	// consuming without remaining demand.
	KindDemandFault Kind = 7

	// KindError indicates the terminal error signal.
	KindError Kind = 8

	// KindComplete indicates the terminal completion signal.
	KindComplete Kind = 9
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSubscribe:
		return "SUBSCRIBE"
	case KindReplay:
		return "REPLAY"
	case KindRequest:
		return "REQUEST"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindCancel:
		return "CANCEL"
	case KindNext:
		return "NEXT"
	case KindOverflow:
		return "OVERFLOW"
	case KindDemandFault:
		return "DEMAND_FAULT"
	case KindError:
		return "ERROR"
	case KindComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}
