// Command probe-shell provides an interactive shell for driving a probe
// publisher by hand: attaching consumers, granting demand, emitting values
// and terminating the stream, while inspecting demand and lifecycle counters.
//
// Usage:
//
//	probe-shell [flags]
//
// Flags:
//
//	-id string
//	      Probe identifier (default: generated)
//	-violations string
//	      Comma-separated protocol violations to permit
//	      (allow_null_values, request_overflow)
//	-record string
//	      Write a signal transcript to the given .plog file
//
// Examples:
//
//	probe-shell
//	probe-shell -violations request_overflow
//	probe-shell -id demand-demo -record demo.plog
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/streamprobe/streamprobe-go/cmd/probe-shell/interactive"
	"github.com/streamprobe/streamprobe-go/pkg/probe"
	"github.com/streamprobe/streamprobe-go/pkg/record"
)

var (
	id         = flag.String("id", "", "Probe identifier (default: generated)")
	violations = flag.String("violations", "", "Comma-separated protocol violations to permit")
	recordPath = flag.String("record", "", "Write a signal transcript to the given .plog file")
)

func main() {
	flag.Parse()

	var opts []probe.Option

	if *id != "" {
		opts = append(opts, probe.WithID(*id))
	}

	if *violations != "" {
		v, err := parseViolations(*violations)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, probe.WithViolations(v))
	}

	var recorder *record.FileLogger
	if *recordPath != "" {
		var err error
		recorder, err = record.NewFileLogger(*recordPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open transcript: %v\n", err)
			os.Exit(1)
		}
		defer recorder.Close()
		opts = append(opts, probe.WithLogger(recorder))
	}

	pub := probe.New[string](opts...)

	shell, err := interactive.New(pub)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start shell: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Probe Shell - probe %s\n", pub.ID())
	if *recordPath != "" {
		fmt.Printf("Recording signals to %s\n", *recordPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shell.Run(ctx, cancel)
}

// parseViolations parses a comma-separated violation list.
func parseViolations(s string) (probe.Violation, error) {
	var v probe.Violation
	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(name) {
		case "allow_null_values":
			v |= probe.AllowNullValues
		case "request_overflow":
			v |= probe.RequestOverflow
		case "":
		default:
			return 0, fmt.Errorf("unknown violation %q", name)
		}
	}
	return v, nil
}
