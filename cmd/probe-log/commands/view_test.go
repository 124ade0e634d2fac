package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/streamprobe/streamprobe-go/pkg/record"
	"github.com/streamprobe/streamprobe-go/pkg/stream"
)

func TestFormatSubscribeEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	event := record.Event{
		Timestamp:   ts,
		ProbeID:     "abc12345-6789-0123-4567-890abcdef012",
		Kind:        record.KindSubscribe,
		Sub:         1,
		Subscribers: 2,
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	// Check timestamp format
	if !strings.Contains(output, "2026-01-28T10:15:32.123456Z") {
		t.Errorf("expected microsecond timestamp, got: %s", output)
	}

	// Check probe ID (shortened)
	if !strings.Contains(output, "[probe:abc12345]") {
		t.Errorf("expected shortened probe ID, got: %s", output)
	}

	// Check kind and details
	if !strings.Contains(output, "SUBSCRIBE") {
		t.Errorf("expected SUBSCRIBE kind, got: %s", output)
	}
	if !strings.Contains(output, "Sub: 1") {
		t.Errorf("expected Sub: 1, got: %s", output)
	}
	if !strings.Contains(output, "Subscribers: 2") {
		t.Errorf("expected Subscribers: 2, got: %s", output)
	}
}

func TestFormatRequestEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	event := record.Event{
		Timestamp: ts,
		ProbeID:   "abc12345-6789-0123-4567-890abcdef012",
		Kind:      record.KindRequest,
		Sub:       1,
		Demand:    5,
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "REQUEST") {
		t.Errorf("expected REQUEST kind, got: %s", output)
	}
	if !strings.Contains(output, "Demand: 5") {
		t.Errorf("expected Demand: 5, got: %s", output)
	}
}

func TestFormatRequestEventUnbounded(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := record.Event{
		Timestamp: ts,
		ProbeID:   "abc12345",
		Kind:      record.KindRequest,
		Sub:       1,
		Demand:    stream.Unbounded,
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Demand: unbounded") {
		t.Errorf("expected Demand: unbounded, got: %s", output)
	}
}

func TestFormatBadRequestEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := record.Event{
		Timestamp: ts,
		ProbeID:   "abc12345",
		Kind:      record.KindBadRequest,
		Sub:       3,
		Demand:    -1,
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "BAD_REQUEST") {
		t.Errorf("expected BAD_REQUEST kind, got: %s", output)
	}
	if !strings.Contains(output, "Demand: -1") {
		t.Errorf("expected Demand: -1, got: %s", output)
	}
}

func TestFormatNextEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := record.Event{
		Timestamp: ts,
		ProbeID:   "abc12345",
		Kind:      record.KindNext,
		Sub:       2,
		Value:     "alpha",
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "NEXT") {
		t.Errorf("expected NEXT kind, got: %s", output)
	}
	if !strings.Contains(output, "Sub: 2") {
		t.Errorf("expected Sub: 2, got: %s", output)
	}
	if !strings.Contains(output, "Value: alpha") {
		t.Errorf("expected Value: alpha, got: %s", output)
	}
}

func TestFormatOverflowEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := record.Event{
		Timestamp: ts,
		ProbeID:   "abc12345",
		Kind:      record.KindOverflow,
		Sub:       1,
		Value:     "surplus",
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "OVERFLOW") {
		t.Errorf("expected OVERFLOW kind, got: %s", output)
	}
	if !strings.Contains(output, "Value: surplus") {
		t.Errorf("expected Value: surplus, got: %s", output)
	}
}

func TestFormatReplayEventCompleted(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := record.Event{
		Timestamp: ts,
		ProbeID:   "abc12345",
		Kind:      record.KindReplay,
		Sub:       4,
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "REPLAY") {
		t.Errorf("expected REPLAY kind, got: %s", output)
	}
	if !strings.Contains(output, "Outcome: completed") {
		t.Errorf("expected completed outcome, got: %s", output)
	}
}

func TestFormatReplayEventError(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := record.Event{
		Timestamp: ts,
		ProbeID:   "abc12345",
		Kind:      record.KindReplay,
		Sub:       4,
		Error:     "source exhausted",
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Outcome: error: source exhausted") {
		t.Errorf("expected error outcome, got: %s", output)
	}
}

func TestFormatDemandFaultEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := record.Event{
		Timestamp: ts,
		ProbeID:   "abc12345",
		Kind:      record.KindDemandFault,
		Sub:       1,
		Error:     "value delivered without demand",
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "DEMAND_FAULT") {
		t.Errorf("expected DEMAND_FAULT kind, got: %s", output)
	}
	if !strings.Contains(output, "Error: value delivered without demand") {
		t.Errorf("expected fault error, got: %s", output)
	}
}

func TestFormatErrorEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := record.Event{
		Timestamp: ts,
		ProbeID:   "abc12345",
		Kind:      record.KindError,
		Error:     "boom",
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "ERROR") {
		t.Errorf("expected ERROR kind, got: %s", output)
	}
	if !strings.Contains(output, "Error: boom") {
		t.Errorf("expected Error: boom, got: %s", output)
	}
}

func TestFormatCompleteEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := record.Event{
		Timestamp: ts,
		ProbeID:   "abc12345",
		Kind:      record.KindComplete,
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "COMPLETE") {
		t.Errorf("expected COMPLETE kind, got: %s", output)
	}

	// Completion carries no detail lines
	if strings.Contains(output, "Sub:") {
		t.Errorf("expected no Sub detail, got: %s", output)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input    string
		expected record.Kind
		wantErr  bool
	}{
		{"subscribe", record.KindSubscribe, false},
		{"SUBSCRIBE", record.KindSubscribe, false},
		{"replay", record.KindReplay, false},
		{"request", record.KindRequest, false},
		{"bad_request", record.KindBadRequest, false},
		{"cancel", record.KindCancel, false},
		{"next", record.KindNext, false},
		{"overflow", record.KindOverflow, false},
		{"demand_fault", record.KindDemandFault, false},
		{"error", record.KindError, false},
		{"complete", record.KindComplete, false},
		{"invalid", 0, true},
	}

	for _, tt := range tests {
		got, err := parseKind(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseKind(%q) expected error", tt.input)
			}
		} else {
			if err != nil {
				t.Errorf("parseKind(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("parseKind(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		}
	}
}

func TestRunViewFilterByKind(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []record.Event{
		{Timestamp: ts, ProbeID: "probe-1", Kind: record.KindSubscribe, Sub: 1, Subscribers: 1},
		{Timestamp: ts.Add(time.Second), ProbeID: "probe-1", Kind: record.KindNext, Sub: 1, Value: "alpha"},
		{Timestamp: ts.Add(2 * time.Second), ProbeID: "probe-1", Kind: record.KindComplete},
	}

	path := createTestTranscript(t, events)

	next := record.KindNext
	var buf bytes.Buffer
	err := RunView(path, record.Filter{Kind: &next}, &buf)
	if err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "NEXT") {
		t.Errorf("expected NEXT event in output, got: %s", output)
	}
	if strings.Contains(output, "SUBSCRIBE") {
		t.Errorf("expected SUBSCRIBE filtered out, got: %s", output)
	}
	if strings.Contains(output, "COMPLETE") {
		t.Errorf("expected COMPLETE filtered out, got: %s", output)
	}
}
