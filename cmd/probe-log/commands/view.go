// Package commands implements the probe-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/streamprobe/streamprobe-go/pkg/record"
	"github.com/streamprobe/streamprobe-go/pkg/stream"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event record.Event) {
	// Header line: timestamp [probe:id] KIND
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [probe:%s] %s\n", ts, shortenProbeID(event.ProbeID), event.Kind)

	// Kind-specific details
	switch event.Kind {
	case record.KindSubscribe:
		fmt.Fprintf(w, "  Sub: %d\n", event.Sub)
		fmt.Fprintf(w, "  Subscribers: %d\n", event.Subscribers)

	case record.KindReplay:
		fmt.Fprintf(w, "  Sub: %d\n", event.Sub)
		if event.Error != "" {
			fmt.Fprintf(w, "  Outcome: error: %s\n", event.Error)
		} else {
			fmt.Fprintln(w, "  Outcome: completed")
		}

	case record.KindRequest, record.KindBadRequest:
		fmt.Fprintf(w, "  Sub: %d\n", event.Sub)
		fmt.Fprintf(w, "  Demand: %s\n", demandAmount(event.Demand))

	case record.KindCancel:
		fmt.Fprintf(w, "  Sub: %d\n", event.Sub)
		fmt.Fprintf(w, "  Subscribers: %d\n", event.Subscribers)

	case record.KindNext, record.KindOverflow:
		fmt.Fprintf(w, "  Sub: %d\n", event.Sub)
		fmt.Fprintf(w, "  Value: %s\n", event.Value)

	case record.KindDemandFault:
		fmt.Fprintf(w, "  Sub: %d\n", event.Sub)
		fmt.Fprintf(w, "  Error: %s\n", event.Error)

	case record.KindError:
		fmt.Fprintf(w, "  Error: %s\n", event.Error)

	case record.KindComplete:
		// No details beyond the header
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenProbeID returns the first 8 characters of the probe ID.
func shortenProbeID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// demandAmount renders a demand amount, collapsing the unbounded sentinel.
func demandAmount(n int64) string {
	if n == stream.Unbounded {
		return "unbounded"
	}
	return strconv.FormatInt(n, 10)
}

// ParseKindFlag parses an event kind string from a command-line flag
// (case-insensitive).
func ParseKindFlag(s string) (record.Kind, error) {
	return parseKind(s)
}

// parseKind parses an event kind string (case-insensitive).
func parseKind(s string) (record.Kind, error) {
	switch strings.ToLower(s) {
	case "subscribe":
		return record.KindSubscribe, nil
	case "replay":
		return record.KindReplay, nil
	case "request":
		return record.KindRequest, nil
	case "bad_request":
		return record.KindBadRequest, nil
	case "cancel":
		return record.KindCancel, nil
	case "next":
		return record.KindNext, nil
	case "overflow":
		return record.KindOverflow, nil
	case "demand_fault":
		return record.KindDemandFault, nil
	case "error":
		return record.KindError, nil
	case "complete":
		return record.KindComplete, nil
	default:
		return 0, fmt.Errorf("invalid kind: %s (must be subscribe, replay, request, bad_request, cancel, next, overflow, demand_fault, error, or complete)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter record.Filter, output io.Writer) error {
	reader, err := record.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open transcript: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
