// Package interactive provides the interactive command-line interface
// for driving a probe by hand.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/streamprobe/streamprobe-go/pkg/probe"
	"github.com/streamprobe/streamprobe-go/pkg/sink"
	"github.com/streamprobe/streamprobe-go/pkg/stream"
)

// Shell handles interactive mode for probe-shell.
type Shell struct {
	pub       *probe.Publisher[string]
	consumers map[string]*sink.Recorder[string]
	rl        *readline.Instance
}

// New creates a new interactive shell around the given probe.
func New(pub *probe.Publisher[string]) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "probe> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{
		pub:       pub,
		consumers: make(map[string]*sink.Recorder[string]),
		rl:        rl,
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "attach", "a":
			s.cmdAttach(args)

		case "request", "r":
			s.cmdRequest(args)

		case "cancel", "c":
			s.cmdCancel(args)

		case "next", "n":
			s.cmdNext(args)

		case "emit", "e":
			s.cmdEmit(args)

		case "error", "err":
			s.cmdError(args)

		case "complete", "done":
			s.cmdComplete()

		case "stats", "status":
			s.cmdStats()

		case "values", "v":
			s.cmdValues(args)

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Probe Commands:
  Consumers:
    attach <name> [demand]  - Attach a recording consumer (demand: number or 'unbounded')
    request <name> <n>      - Grant demand on behalf of a consumer
    cancel <name>           - Cancel a consumer's subscription
    values [name]           - Show recorded values (all consumers if no name)

  Driving:
    next <value>            - Deliver one value to every live subscriber
    emit <v1> [v2 ...]      - Deliver values, then complete
    error <message>         - Terminate the probe with an error
    complete                - Terminate the probe normally

  State:
    stats                   - Show probe demand and lifecycle counters

  General:
    help                    - Show this help
    quit                    - Exit shell`)
}

// cmdAttach handles the attach command.
func (s *Shell) cmdAttach(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: attach <name> [demand]")
		fmt.Fprintln(s.rl.Stdout(), "  Example: attach main 5")
		return
	}

	name := args[0]
	if _, exists := s.consumers[name]; exists {
		fmt.Fprintf(s.rl.Stdout(), "Consumer already attached: %s\n", name)
		return
	}

	var demand int64
	if len(args) >= 2 {
		n, err := parseDemand(args[1])
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "Invalid demand: %v\n", err)
			return
		}
		demand = n
	}

	var opts []sink.Option
	if demand != 0 {
		opts = append(opts, sink.WithInitialDemand(demand))
	}

	r := sink.NewRecorder[string](opts...)
	s.consumers[name] = r
	s.pub.Subscribe(r)

	if r.Terminated() {
		fmt.Fprintf(s.rl.Stdout(), "Attached %s (probe already terminated, signal replayed)\n", name)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Attached %s (demand %s)\n", name, demandString(demand))
}

// cmdRequest handles the request command.
func (s *Shell) cmdRequest(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: request <name> <n>")
		return
	}

	r, ok := s.consumers[args[0]]
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown consumer: %s\n", args[0])
		return
	}

	n, err := parseDemand(args[1])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid demand: %v\n", err)
		return
	}

	r.Request(n)
	fmt.Fprintf(s.rl.Stdout(), "Requested %s for %s\n", demandString(n), args[0])
}

// cmdCancel handles the cancel command.
func (s *Shell) cmdCancel(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: cancel <name>")
		return
	}

	r, ok := s.consumers[args[0]]
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown consumer: %s\n", args[0])
		return
	}

	r.Cancel()
	fmt.Fprintf(s.rl.Stdout(), "Cancelled %s\n", args[0])
}

// cmdNext handles the next command.
func (s *Shell) cmdNext(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: next <value>")
		return
	}

	if s.pub.IsTerminated() {
		fmt.Fprintln(s.rl.Stdout(), "Probe is terminated; value not delivered")
		return
	}

	s.pub.Next(strings.Join(args, " "))
	fmt.Fprintf(s.rl.Stdout(), "Delivered to %d subscriber(s)\n", s.pub.SubscriberCount())
}

// cmdEmit handles the emit command (values followed by completion).
func (s *Shell) cmdEmit(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: emit <v1> [v2 ...]")
		return
	}

	if s.pub.IsTerminated() {
		fmt.Fprintln(s.rl.Stdout(), "Probe is terminated; values not delivered")
		return
	}

	s.pub.Emit(args...)
	fmt.Fprintf(s.rl.Stdout(), "Emitted %d value(s) and completed\n", len(args))
}

// cmdError terminates the probe with an error.
func (s *Shell) cmdError(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: error <message>")
		return
	}

	if s.pub.IsTerminated() {
		fmt.Fprintln(s.rl.Stdout(), "Probe is already terminated")
		return
	}

	s.pub.Error(errors.New(strings.Join(args, " ")))
	fmt.Fprintln(s.rl.Stdout(), "Probe terminated with error")
}

// cmdComplete terminates the probe normally.
func (s *Shell) cmdComplete() {
	if s.pub.IsTerminated() {
		fmt.Fprintln(s.rl.Stdout(), "Probe is already terminated")
		return
	}

	s.pub.Complete()
	fmt.Fprintln(s.rl.Stdout(), "Probe completed")
}

// cmdStats shows probe counters.
func (s *Shell) cmdStats() {
	fmt.Fprintln(s.rl.Stdout(), "\nProbe Status")
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(s.rl.Stdout(), "  ID:            %s\n", s.pub.ID())
	fmt.Fprintf(s.rl.Stdout(), "  Violations:    %s\n", s.pub.Violations())
	fmt.Fprintf(s.rl.Stdout(), "  Subscribers:   %d\n", s.pub.SubscriberCount())
	fmt.Fprintf(s.rl.Stdout(), "  Min Requested: %s\n", demandString(s.pub.MinRequested()))
	fmt.Fprintf(s.rl.Stdout(), "  Max Requested: %s\n", demandString(s.pub.MaxRequested()))
	fmt.Fprintf(s.rl.Stdout(), "  Cancellations: %d\n", s.pub.Cancellations())
	fmt.Fprintf(s.rl.Stdout(), "  Overflown:     %v\n", s.pub.HasOverflown())
	fmt.Fprintf(s.rl.Stdout(), "  Terminated:    %v\n", s.pub.IsTerminated())
	fmt.Fprintln(s.rl.Stdout())
}

// cmdValues shows recorded values for one or all consumers.
func (s *Shell) cmdValues(args []string) {
	if len(s.consumers) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No consumers attached")
		return
	}

	names := make([]string, 0, len(s.consumers))
	if len(args) >= 1 {
		if _, ok := s.consumers[args[0]]; !ok {
			fmt.Fprintf(s.rl.Stdout(), "Unknown consumer: %s\n", args[0])
			return
		}
		names = append(names, args[0])
	} else {
		for name := range s.consumers {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	for _, name := range names {
		r := s.consumers[name]
		fmt.Fprintf(s.rl.Stdout(), "\n%s:\n", name)
		values := r.Values()
		if len(values) == 0 {
			fmt.Fprintln(s.rl.Stdout(), "  (no values)")
		}
		for i, v := range values {
			fmt.Fprintf(s.rl.Stdout(), "  %d: %s\n", i+1, v)
		}
		if err := r.Err(); err != nil {
			fmt.Fprintf(s.rl.Stdout(), "  error: %v\n", err)
		}
		if r.Completed() {
			fmt.Fprintln(s.rl.Stdout(), "  completed")
		}
	}
	fmt.Fprintln(s.rl.Stdout())
}

// parseDemand parses a demand argument: a positive integer or 'unbounded'.
func parseDemand(arg string) (int64, error) {
	if strings.EqualFold(arg, "unbounded") {
		return stream.Unbounded, nil
	}
	return strconv.ParseInt(arg, 10, 64)
}

// demandString renders a demand amount, collapsing the unbounded sentinel.
func demandString(n int64) string {
	if n == stream.Unbounded {
		return "unbounded"
	}
	return strconv.FormatInt(n, 10)
}
