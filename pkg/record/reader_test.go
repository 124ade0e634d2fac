package record

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestTranscript(t *testing.T, events []Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.plog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test transcript: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReaderIteratesEvents(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ProbeID: "probe-1", Kind: KindSubscribe, Subscribers: 1},
		{Timestamp: time.Now(), ProbeID: "probe-1", Kind: KindRequest, Sub: 1, Demand: 5},
		{Timestamp: time.Now(), ProbeID: "probe-1", Kind: KindNext, Sub: 1, Value: "a"},
	}

	path := createTestTranscript(t, events)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}

	// Verify order
	if read[0].Kind != KindSubscribe {
		t.Errorf("first event Kind = %v, want %v", read[0].Kind, KindSubscribe)
	}
	if read[2].Kind != KindNext {
		t.Errorf("last event Kind = %v, want %v", read[2].Kind, KindNext)
	}
	if read[2].Value != "a" {
		t.Errorf("last event Value = %q, want %q", read[2].Value, "a")
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.plog")

	// Create empty file
	logger, _ := NewFileLogger(path)
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got err=%v, event=%+v", err, event)
	}
}

func TestReaderFilterByProbeID(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ProbeID: "probe-A", Kind: KindSubscribe},
		{Timestamp: time.Now(), ProbeID: "probe-B", Kind: KindSubscribe},
		{Timestamp: time.Now(), ProbeID: "probe-A", Kind: KindComplete},
		{Timestamp: time.Now(), ProbeID: "probe-C", Kind: KindError, Error: "boom"},
	}

	path := createTestTranscript(t, events)

	reader, err := NewFilteredReader(path, Filter{ProbeID: "probe-A"})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}
	for _, e := range read {
		if e.ProbeID != "probe-A" {
			t.Errorf("filtered event has ProbeID %q, want %q", e.ProbeID, "probe-A")
		}
	}
}

func TestReaderFilterByKind(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ProbeID: "probe-1", Kind: KindRequest, Sub: 1, Demand: 1},
		{Timestamp: time.Now(), ProbeID: "probe-1", Kind: KindNext, Sub: 1, Value: "x"},
		{Timestamp: time.Now(), ProbeID: "probe-1", Kind: KindRequest, Sub: 2, Demand: 10},
		{Timestamp: time.Now(), ProbeID: "probe-1", Kind: KindNext, Sub: 2, Value: "y"},
	}

	path := createTestTranscript(t, events)

	kind := KindNext
	reader, err := NewFilteredReader(path, Filter{Kind: &kind})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if event.Kind != KindNext {
			t.Errorf("filtered event has Kind %v, want %v", event.Kind, KindNext)
		}
		count++
	}

	if count != 2 {
		t.Errorf("got %d events, want 2", count)
	}
}

func TestReaderFilterBySub(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ProbeID: "probe-1", Kind: KindRequest, Sub: 1, Demand: 1},
		{Timestamp: time.Now(), ProbeID: "probe-1", Kind: KindRequest, Sub: 2, Demand: 2},
		{Timestamp: time.Now(), ProbeID: "probe-1", Kind: KindCancel, Sub: 2, Subscribers: 1},
	}

	path := createTestTranscript(t, events)

	sub := int64(2)
	reader, err := NewFilteredReader(path, Filter{Sub: &sub})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}
	if read[0].Kind != KindRequest || read[1].Kind != KindCancel {
		t.Errorf("filtered kinds = %v, %v, want REQUEST, CANCEL", read[0].Kind, read[1].Kind)
	}
}

func TestReaderFilterByTimeWindow(t *testing.T) {
	base := time.Now()
	events := []Event{
		{Timestamp: base.Add(-2 * time.Hour), ProbeID: "probe-1", Kind: KindSubscribe},
		{Timestamp: base, ProbeID: "probe-1", Kind: KindNext, Value: "in-window"},
		{Timestamp: base.Add(2 * time.Hour), ProbeID: "probe-1", Kind: KindComplete},
	}

	path := createTestTranscript(t, events)

	start := base.Add(-time.Hour)
	end := base.Add(time.Hour)
	reader, err := NewFilteredReader(path, Filter{TimeStart: &start, TimeEnd: &end})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if event.Value != "in-window" {
		t.Errorf("event Value = %q, want %q", event.Value, "in-window")
	}

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after window, got %v", err)
	}
}

func TestReaderMissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "nope.plog"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
