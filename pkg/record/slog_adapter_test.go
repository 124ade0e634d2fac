package record

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func TestSlogAdapterLogsNextEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	slogger := slog.New(handler)

	adapter := NewSlogAdapter(slogger)

	adapter.Log(Event{
		Timestamp: time.Now(),
		ProbeID:   "probe-123",
		Kind:      KindNext,
		Sub:       3,
		Value:     "payload",
	})

	output := buf.String()
	if output == "" {
		t.Fatal("no output produced")
	}

	// Parse JSON log entry
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	// Verify key fields
	if logEntry["probe_id"] != "probe-123" {
		t.Errorf("probe_id: got %v, want %q", logEntry["probe_id"], "probe-123")
	}
	if logEntry["kind"] != "NEXT" {
		t.Errorf("kind: got %v, want %q", logEntry["kind"], "NEXT")
	}
	if logEntry["sub"] != float64(3) {
		t.Errorf("sub: got %v, want %v", logEntry["sub"], 3)
	}
	if logEntry["value"] != "payload" {
		t.Errorf("value: got %v, want %q", logEntry["value"], "payload")
	}
}

func TestSlogAdapterLogsRequestEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	slogger := slog.New(handler)

	adapter := NewSlogAdapter(slogger)

	adapter.Log(Event{
		Timestamp: time.Now(),
		ProbeID:   "probe-123",
		Kind:      KindRequest,
		Sub:       1,
		Demand:    42,
	})

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if logEntry["kind"] != "REQUEST" {
		t.Errorf("kind: got %v, want %q", logEntry["kind"], "REQUEST")
	}
	if logEntry["demand"] != float64(42) {
		t.Errorf("demand: got %v, want %v", logEntry["demand"], 42)
	}
}

func TestSlogAdapterLogsErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	slogger := slog.New(handler)

	adapter := NewSlogAdapter(slogger)

	adapter.Log(Event{
		Timestamp: time.Now(),
		ProbeID:   "probe-123",
		Kind:      KindError,
		Error:     "expected failure",
	})

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if logEntry["kind"] != "ERROR" {
		t.Errorf("kind: got %v, want %q", logEntry["kind"], "ERROR")
	}
	if logEntry["error"] != "expected failure" {
		t.Errorf("error: got %v, want %q", logEntry["error"], "expected failure")
	}
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	// Info level handler should drop Debug-level probe events
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	slogger := slog.New(handler)

	adapter := NewSlogAdapter(slogger)

	adapter.Log(Event{
		Timestamp: time.Now(),
		ProbeID:   "probe-123",
		Kind:      KindSubscribe,
	})

	if buf.Len() != 0 {
		t.Errorf("expected no output at Info level, got %q", buf.String())
	}
}
