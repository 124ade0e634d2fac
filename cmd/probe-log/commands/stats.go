package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/streamprobe/streamprobe-go/pkg/record"
)

// Stats holds aggregate statistics about a transcript.
type Stats struct {
	TotalEvents  int
	EventsByKind map[record.Kind]int
	Probes       map[string]*ProbeStats
	TimeRange    struct {
		Start time.Time
		End   time.Time
	}
}

// ProbeStats holds statistics for a single probe.
type ProbeStats struct {
	FirstSeen    time.Time
	LastSeen     time.Time
	Events       int
	Subscribes   int
	Replays      int
	Cancels      int
	Values       int
	Overflows    int
	BadRequests  int
	DemandFaults int
	Terminal     string
}

// RunStats analyzes the transcript and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := record.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open transcript: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind: make(map[record.Kind]int),
		Probes:       make(map[string]*ProbeStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByKind[event.Kind]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track per-probe stats
		probe, ok := stats.Probes[event.ProbeID]
		if !ok {
			probe = &ProbeStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Probes[event.ProbeID] = probe
		}
		probe.Events++
		if event.Timestamp.After(probe.LastSeen) {
			probe.LastSeen = event.Timestamp
		}

		switch event.Kind {
		case record.KindSubscribe:
			probe.Subscribes++
		case record.KindReplay:
			probe.Replays++
		case record.KindCancel:
			probe.Cancels++
		case record.KindNext:
			probe.Values++
		case record.KindOverflow:
			probe.Values++
			probe.Overflows++
		case record.KindBadRequest:
			probe.BadRequests++
		case record.KindDemandFault:
			probe.DemandFaults++
		case record.KindError:
			probe.Terminal = "error: " + event.Error
		case record.KindComplete:
			probe.Terminal = "completed"
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Probe Transcript Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by kind
	fmt.Fprintln(w, "Events by Kind:")
	kinds := []record.Kind{
		record.KindSubscribe, record.KindReplay, record.KindRequest,
		record.KindBadRequest, record.KindCancel, record.KindNext,
		record.KindOverflow, record.KindDemandFault, record.KindError,
		record.KindComplete,
	}
	for _, kind := range kinds {
		if count := stats.EventsByKind[kind]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", kind.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Probes
	fmt.Fprintf(w, "Probes: %d\n", len(stats.Probes))
	if len(stats.Probes) > 0 {
		// Sort by first seen time
		type probeInfo struct {
			id    string
			stats *ProbeStats
		}
		probes := make([]probeInfo, 0, len(stats.Probes))
		for id, ps := range stats.Probes {
			probes = append(probes, probeInfo{id, ps})
		}
		sort.Slice(probes, func(i, j int) bool {
			return probes[i].stats.FirstSeen.Before(probes[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, p := range probes {
			duration := p.stats.LastSeen.Sub(p.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenProbeID(p.id), p.stats.Events, duration)
			if p.stats.Subscribes > 0 || p.stats.Replays > 0 {
				fmt.Fprintf(w, "           Subscriptions: %d", p.stats.Subscribes)
				if p.stats.Replays > 0 {
					fmt.Fprintf(w, " (replayed %d)", p.stats.Replays)
				}
				fmt.Fprintln(w)
			}
			if p.stats.Values > 0 {
				fmt.Fprintf(w, "           Values: %d", p.stats.Values)
				if p.stats.Overflows > 0 {
					fmt.Fprintf(w, " (overflows %d)", p.stats.Overflows)
				}
				fmt.Fprintln(w)
			}
			if p.stats.Cancels > 0 {
				fmt.Fprintf(w, "           Cancellations: %d\n", p.stats.Cancels)
			}
			if p.stats.BadRequests > 0 {
				fmt.Fprintf(w, "           Bad Requests: %d\n", p.stats.BadRequests)
			}
			if p.stats.DemandFaults > 0 {
				fmt.Fprintf(w, "           Demand Faults: %d\n", p.stats.DemandFaults)
			}
			if p.stats.Terminal != "" {
				fmt.Fprintf(w, "           Terminal: %s\n", p.stats.Terminal)
			}
		}
	}
}
