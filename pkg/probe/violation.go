package probe

import "strings"

// Violation is a protocol rule the probe is permitted to break.
// Violations are fixed at construction and immutable afterwards.
type Violation uint8

const (
	// AllowNullValues permits Next to deliver nil values. Without it,
	// emitting nil panics.
	AllowNullValues Violation = 1 << iota

	// RequestOverflow permits delivery to subscribers with no remaining
	// demand. Without it, such a delivery detaches the subscriber and
	// fails it with ErrNoDemand.
	RequestOverflow
)

// Has reports whether all bits of flag are set.
func (v Violation) Has(flag Violation) bool {
	return v&flag == flag
}

// String returns a human-readable name for the violation set.
func (v Violation) String() string {
	if v == 0 {
		return "NONE"
	}

	var parts []string
	if v.Has(AllowNullValues) {
		parts = append(parts, "ALLOW_NULL_VALUES")
	}
	if v.Has(RequestOverflow) {
		parts = append(parts, "REQUEST_OVERFLOW")
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}
