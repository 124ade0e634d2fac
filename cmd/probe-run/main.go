// Command probe-run executes YAML-scripted probe scenarios.
//
// Each scenario drives a fresh probe through a sequence of attach,
// request, emit, cancel, and terminal steps, checking demand accounting
// and delivery expectations after every step.
//
// Usage:
//
//	probe-run [flags] <scenario-file-or-dir> [...]
//
// Flags:
//
//	-verbose            Show per-step detail in text output
//	-json               Output results as JSON
//	-junit              Output results as JUnit XML
//	-record string      File path for probe event recording (CBOR format)
//	-stop-on-failure    Stop after the first failed scenario
//	-recursive          Recurse into scenario directories
//	-timeout duration   Total run timeout (default 10m)
//
// Examples:
//
//	# Run every scenario under ./scenarios
//	probe-run ./scenarios
//
//	# Record probe transcripts while running one scenario
//	probe-run -record run.plog scenarios/demand.yaml
//
//	# Emit JUnit XML for CI
//	probe-run -junit ./scenarios > report.xml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/streamprobe/streamprobe-go/internal/harness/engine"
	"github.com/streamprobe/streamprobe-go/internal/harness/loader"
	"github.com/streamprobe/streamprobe-go/internal/harness/reporter"
	"github.com/streamprobe/streamprobe-go/pkg/record"
)

var (
	verbose       = flag.Bool("verbose", false, "Show per-step detail in text output")
	jsonOut       = flag.Bool("json", false, "Output results as JSON")
	junitOut      = flag.Bool("junit", false, "Output results as JUnit XML")
	recordPath    = flag.String("record", "", "File path for probe event recording (CBOR format)")
	stopOnFailure = flag.Bool("stop-on-failure", false, "Stop after the first failed scenario")
	recursive     = flag.Bool("recursive", false, "Recurse into scenario directories")
	timeout       = flag.Duration("timeout", 10*time.Minute, "Total run timeout")
)

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one scenario file or directory is required")
		flag.Usage()
		os.Exit(1)
	}

	scenarios, err := loadScenarios(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(scenarios) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no scenarios found")
		os.Exit(1)
	}

	config := engine.DefaultConfig()
	config.StopOnFirstFailure = *stopOnFailure

	if *recordPath != "" {
		recorder, err := record.NewFileLogger(*recordPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create event recorder: %v\n", err)
			os.Exit(1)
		}
		defer recorder.Close()
		config.Logger = recorder
	}

	e := engine.NewWithConfig(config)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result := e.RunSuite(ctx, scenarios)

	newReporter().ReportSuite(result)

	if result.FailCount > 0 {
		os.Exit(1)
	}
}

func loadScenarios(paths []string) ([]*loader.Scenario, error) {
	var scenarios []*loader.Scenario

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			var batch []*loader.Scenario
			if *recursive {
				batch, err = loader.LoadDirectoryRecursive(path)
			} else {
				batch, err = loader.LoadDirectory(path)
			}
			if err != nil {
				return nil, err
			}
			scenarios = append(scenarios, batch...)
			continue
		}

		sc, err := loader.LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}

	return scenarios, nil
}

func newReporter() reporter.Reporter {
	switch {
	case *jsonOut:
		return reporter.NewJSONReporter(os.Stdout, true)
	case *junitOut:
		return reporter.NewJUnitReporter(os.Stdout)
	default:
		return reporter.NewTextReporter(os.Stdout, *verbose)
	}
}
