package engine

import (
	"errors"
	"fmt"

	"github.com/streamprobe/streamprobe-go/internal/harness/loader"
	"github.com/streamprobe/streamprobe-go/pkg/sink"
	"github.com/streamprobe/streamprobe-go/pkg/stream"
)

// handleAttach subscribes a named recorder to the probe. Demand policy
// comes from the step parameters: demand, demand_on_next, cancel_after.
func handleAttach(step *loader.Step, state *ExecutionState) error {
	name, err := paramString(step.Params, "consumer")
	if err != nil {
		return err
	}
	if _, exists := state.Consumers[name]; exists {
		return fmt.Errorf("consumer %q already attached", name)
	}

	var opts []sink.Option
	if raw, ok := step.Params["demand"]; ok {
		n, err := demandValue(raw)
		if err != nil {
			return fmt.Errorf("attach %s: demand: %w", name, err)
		}
		opts = append(opts, sink.WithInitialDemand(n))
	}
	if raw, ok := step.Params["demand_on_next"]; ok {
		n, err := demandValue(raw)
		if err != nil {
			return fmt.Errorf("attach %s: demand_on_next: %w", name, err)
		}
		opts = append(opts, sink.WithDemandOnNext(n))
	}
	if raw, ok := step.Params["cancel_after"]; ok {
		n, err := intValue(raw)
		if err != nil {
			return fmt.Errorf("attach %s: cancel_after: %w", name, err)
		}
		opts = append(opts, sink.WithCancelAfter(int(n)))
	}

	r := sink.NewRecorder[string](opts...)
	state.Consumers[name] = r
	state.Publisher.Subscribe(r)
	return nil
}

// handleEmit delivers one or more values through the probe.
func handleEmit(step *loader.Step, state *ExecutionState) error {
	values, err := emitValues(step.Params)
	if err != nil {
		return err
	}
	for _, v := range values {
		state.Publisher.Next(v)
	}
	return nil
}

// handleError terminates the probe with an error.
func handleError(step *loader.Step, state *ExecutionState) error {
	msg, err := paramString(step.Params, "message")
	if err != nil {
		return err
	}
	state.Publisher.Error(errors.New(msg))
	return nil
}

// handleComplete terminates the probe normally.
func handleComplete(_ *loader.Step, state *ExecutionState) error {
	state.Publisher.Complete()
	return nil
}

// handleRequest grants demand on behalf of a named consumer.
func handleRequest(step *loader.Step, state *ExecutionState) error {
	name, err := paramString(step.Params, "consumer")
	if err != nil {
		return err
	}
	r := state.consumer(name)
	if r == nil {
		return fmt.Errorf("unknown consumer %q", name)
	}

	raw, ok := step.Params["n"]
	if !ok {
		return fmt.Errorf("request requires parameter n")
	}
	n, err := demandValue(raw)
	if err != nil {
		return fmt.Errorf("request %s: %w", name, err)
	}

	r.Request(n)
	return nil
}

// handleCancel cancels a named consumer's subscription.
func handleCancel(step *loader.Step, state *ExecutionState) error {
	name, err := paramString(step.Params, "consumer")
	if err != nil {
		return err
	}
	r := state.consumer(name)
	if r == nil {
		return fmt.Errorf("unknown consumer %q", name)
	}

	r.Cancel()
	return nil
}

// paramString extracts a required string parameter.
func paramString(params map[string]interface{}, key string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing required parameter %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string, got %T", key, raw)
	}
	return s, nil
}

// intValue converts a YAML scalar to an integer.
func intValue(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", raw)
	}
}

// demandValue converts a demand parameter: an integer, or the string
// "unbounded".
func demandValue(raw interface{}) (int64, error) {
	if s, ok := raw.(string); ok {
		if s == "unbounded" {
			return stream.Unbounded, nil
		}
		return 0, fmt.Errorf("invalid demand %q", s)
	}
	return intValue(raw)
}

// emitValues normalizes the value/values parameters of an emit step.
func emitValues(params map[string]interface{}) ([]string, error) {
	if raw, ok := params["values"]; ok {
		list, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("values must be a list, got %T", raw)
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out, nil
	}
	if raw, ok := params["value"]; ok {
		return []string{fmt.Sprintf("%v", raw)}, nil
	}
	return nil, fmt.Errorf("emit requires a value or values parameter")
}
