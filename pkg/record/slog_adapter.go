package record

import (
	"context"
	"log/slog"
)

// SlogAdapter writes transcript events to an slog.Logger.
// Useful for development when you want to see protocol traffic in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("probe_id", event.ProbeID),
		slog.String("kind", event.Kind.String()),
	}

	if event.Sub != 0 {
		attrs = append(attrs, slog.Int64("sub", event.Sub))
	}

	// Kind-specific attributes
	switch event.Kind {
	case KindSubscribe, KindCancel:
		attrs = append(attrs, slog.Int("subscribers", event.Subscribers))
	case KindRequest, KindBadRequest:
		attrs = append(attrs, slog.Int64("demand", event.Demand))
	case KindNext, KindOverflow:
		attrs = append(attrs, slog.String("value", event.Value))
	case KindError, KindReplay, KindDemandFault:
		if event.Error != "" {
			attrs = append(attrs, slog.String("error", event.Error))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "probe event", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
