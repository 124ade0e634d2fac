// Command probe-log is a tool for viewing and analyzing probe signal transcripts.
//
// Transcripts are created by passing the -record flag to probe-run or
// probe-shell, or by wiring a record.FileLogger into a probe directly.
//
// Usage:
//
//	probe-log <command> [flags] <file.plog>
//
// Commands:
//
//	view     View transcript in human-readable format
//	export   Export transcript to JSON or CSV format
//	filter   Filter transcript and write to new file
//	stats    Show statistics about the transcript
//
// Examples:
//
//	# View all events
//	probe-log view run.plog
//
//	# View only value deliveries
//	probe-log view --kind next run.plog
//
//	# Export to JSONL
//	probe-log export --format jsonl run.plog
//
//	# Filter by probe and save to new file
//	probe-log filter --probe-id abc12345 -o filtered.plog run.plog
//
//	# Show statistics
//	probe-log stats run.plog
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/streamprobe/streamprobe-go/cmd/probe-log/commands"
	"github.com/streamprobe/streamprobe-go/pkg/record"
)

const usage = `probe-log - Probe Transcript Analyzer

Usage:
  probe-log <command> [flags] <file.plog>

Commands:
  view     View transcript in human-readable format
  export   Export transcript to JSON or CSV format
  filter   Filter transcript and write to new file
  stats    Show statistics about the transcript

Use "probe-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `probe-log view - View transcript in human-readable format

Usage:
  probe-log view [flags] <file.plog>

Flags:
`)
		fs.PrintDefaults()
	}

	kind := fs.String("kind", "", "Filter by event kind (subscribe, replay, request, bad_request, cancel, next, overflow, demand_fault, error, complete)")
	probeID := fs.String("probe-id", "", "Filter by probe ID")
	sub := fs.String("sub", "", "Filter by subscription sequence number")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: transcript path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	// Build filter
	filter := record.Filter{
		ProbeID: *probeID,
	}

	if *kind != "" {
		k, err := commands.ParseKindFlag(*kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Kind = &k
	}

	if *sub != "" {
		n, err := strconv.ParseInt(*sub, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid sub: %s\n", *sub)
			os.Exit(1)
		}
		filter.Sub = &n
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `probe-log export - Export transcript to JSON or CSV format

Usage:
  probe-log export [flags] <file.plog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: transcript path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `probe-log filter - Filter transcript and write to new file

Usage:
  probe-log filter [flags] <file.plog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	probeID := fs.String("probe-id", "", "Filter by probe ID")
	kind := fs.String("kind", "", "Filter by event kind")
	sub := fs.String("sub", "", "Filter by subscription sequence number")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: transcript path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	opts := commands.FilterOptions{
		Output:    *output,
		ProbeID:   *probeID,
		Kind:      *kind,
		Sub:       *sub,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
	}

	if err := commands.RunFilter(path, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `probe-log stats - Show statistics about the transcript

Usage:
  probe-log stats <file.plog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: transcript path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
