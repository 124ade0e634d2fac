// Package record provides structured protocol event capture for probe publishers.
//
// This package defines the Logger interface and Event type for recording every
// protocol interaction a probe performs: attachments, demand grants, value
// deliveries, cancellations and terminal signals. The capture is a complete
// machine-readable transcript of a test run, useful when diagnosing why a
// consumer under test behaved unexpectedly.
//
// # Basic Usage
//
// Probes take a Logger implementation at construction:
//
//	// For development: print the transcript via slog
//	pub := probe.New[string](probe.WithLogger(record.NewSlogAdapter(slog.Default())))
//
//	// For later analysis: write a binary transcript file
//	rec, _ := record.NewFileLogger("consumer.plog")
//	pub := probe.New[string](probe.WithLogger(rec))
//
//	// Both at once
//	pub := probe.New[string](probe.WithLogger(record.NewMultiLogger(
//	    record.NewSlogAdapter(slog.Default()),
//	    rec,
//	)))
//
// # Event Kinds
//
// One Event is captured per protocol interaction:
//   - Subscribe/Replay: a consumer attached, or was replayed a terminal outcome
//   - Request/BadRequest: demand granted, or a non-positive grant rejected
//   - Cancel: a subscription cancelled
//   - Next/Overflow: a value delivered, within or beyond requested demand
//   - DemandFault: a consumer detached for consuming without demand
//   - Error/Complete: the terminal signal
//
// # File Format
//
// Transcript files use CBOR encoding with the .plog extension. The probe-log
// CLI tool provides viewing, statistics, and export capabilities.
package record
