package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/streamprobe/streamprobe-go/pkg/record"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output    string
	ProbeID   string
	Kind      string
	Sub       string
	TimeStart string
	TimeEnd   string
}

// RunFilter filters the transcript and writes matching events to a new file.
func RunFilter(path string, opts FilterOptions) error {
	// Build filter
	filter := record.Filter{
		ProbeID: opts.ProbeID,
	}

	if opts.Kind != "" {
		k, err := parseKind(opts.Kind)
		if err != nil {
			return err
		}
		filter.Kind = &k
	}

	if opts.Sub != "" {
		n, err := strconv.ParseInt(opts.Sub, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sub: %s", opts.Sub)
		}
		filter.Sub = &n
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	// Open input
	reader, err := record.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open transcript: %w", err)
	}
	defer reader.Close()

	// Create file logger to write matching events
	logger, err := record.NewFileLogger(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output transcript: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		count++
	}

	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
	return nil
}
