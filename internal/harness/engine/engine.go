package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/streamprobe/streamprobe-go/internal/harness/loader"
	"github.com/streamprobe/streamprobe-go/pkg/probe"
	"github.com/streamprobe/streamprobe-go/pkg/record"
	"github.com/streamprobe/streamprobe-go/pkg/sink"
)

// Engine executes scenarios.
type Engine struct {
	config   *Config
	handlers map[string]ActionHandler
	checkers map[string]ExpectChecker
	mu       sync.RWMutex
}

// New creates a scenario engine with default configuration.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a scenario engine with the given configuration.
func NewWithConfig(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = record.NoopLogger{}
	}

	e := &Engine{
		config:   config,
		handlers: make(map[string]ActionHandler),
		checkers: make(map[string]ExpectChecker),
	}

	// Built-in probe actions
	e.RegisterHandler("attach", handleAttach)
	e.RegisterHandler("emit", handleEmit)
	e.RegisterHandler("error", handleError)
	e.RegisterHandler("complete", handleComplete)
	e.RegisterHandler("request", handleRequest)
	e.RegisterHandler("cancel", handleCancel)

	// Built-in expectation checkers
	e.RegisterChecker("subscribers", checkSubscribers)
	e.RegisterChecker("min_requested", checkMinRequested)
	e.RegisterChecker("max_requested", checkMaxRequested)
	e.RegisterChecker("cancellations", checkCancellations)
	e.RegisterChecker("overflown", checkOverflown)
	e.RegisterChecker("terminated", checkTerminated)
	e.RegisterChecker("values", checkValues)
	e.RegisterChecker("completed", checkCompleted)
	e.RegisterChecker("errors", checkErrors)

	return e
}

// RegisterHandler registers an action handler.
func (e *Engine) RegisterHandler(action string, handler ActionHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[action] = handler
}

// RegisterChecker registers an expectation checker.
func (e *Engine) RegisterChecker(key string, checker ExpectChecker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.checkers[key] = checker
}

// Run executes a single scenario against a fresh probe.
func (e *Engine) Run(sc *loader.Scenario) *ScenarioResult {
	result := &ScenarioResult{
		Scenario:  sc,
		StartTime: time.Now(),
	}
	finish := func() *ScenarioResult {
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(result.StartTime)
		return result
	}

	if sc.Skip {
		result.Skipped = true
		result.SkipReason = sc.SkipReason
		if result.SkipReason == "" {
			result.SkipReason = "skipped by scenario definition"
		}
		return finish()
	}

	violations, err := parseViolations(sc.Violations)
	if err != nil {
		result.Error = err
		return finish()
	}

	state := &ExecutionState{
		Publisher: probe.New[string](
			probe.WithID(sc.ID),
			probe.WithViolations(violations),
			probe.WithLogger(e.config.Logger),
		),
		Consumers: make(map[string]*sink.Recorder[string]),
	}

	// Execute steps
	result.Passed = true
	for i := range sc.Steps {
		step := &sc.Steps[i]
		stepResult := e.executeStep(step, i, state)
		result.StepResults = append(result.StepResults, stepResult)

		if !stepResult.Passed {
			result.Passed = false
			result.Error = stepResult.Error
			break
		}
	}

	return finish()
}

// executeStep executes a single step, driver misuse panics included.
func (e *Engine) executeStep(step *loader.Step, index int, state *ExecutionState) (result *StepResult) {
	result = &StepResult{
		Step:          step,
		StepIndex:     index,
		ExpectResults: make(map[string]*ExpectResult),
	}

	startTime := time.Now()
	defer func() {
		result.Duration = time.Since(startTime)
		// A scenario that drives the probe into a misuse panic is a
		// failing scenario, not a crashed harness.
		if r := recover(); r != nil {
			result.Passed = false
			result.Error = fmt.Errorf("step panicked: %v", r)
		}
	}()

	e.mu.RLock()
	handler, exists := e.handlers[step.Action]
	e.mu.RUnlock()

	if !exists {
		result.Passed = false
		result.Error = fmt.Errorf("unknown action: %s", step.Action)
		return result
	}

	if err := handler(step, state); err != nil {
		result.Passed = false
		result.Error = err
		return result
	}

	// Check expectations
	result.Passed = true
	for key, expected := range step.Expect {
		expectResult := e.checkExpectation(key, expected, state)
		result.ExpectResults[key] = expectResult
		if !expectResult.Passed {
			result.Passed = false
			result.Error = fmt.Errorf("expectation failed: %s - %s", key, expectResult.Message)
		}
	}

	return result
}

// checkExpectation checks a single expectation.
func (e *Engine) checkExpectation(key string, expected interface{}, state *ExecutionState) *ExpectResult {
	e.mu.RLock()
	checker, exists := e.checkers[key]
	e.mu.RUnlock()

	if !exists {
		return &ExpectResult{
			Key:      key,
			Expected: expected,
			Passed:   false,
			Message:  fmt.Sprintf("unknown expectation key %q", key),
		}
	}

	return checker(key, expected, state)
}

// RunSuite executes all scenarios in order.
func (e *Engine) RunSuite(ctx context.Context, scenarios []*loader.Scenario) *SuiteResult {
	result := &SuiteResult{
		SuiteName: "Probe Scenarios",
	}

	startTime := time.Now()
	defer func() { result.Duration = time.Since(startTime) }()

	for _, sc := range scenarios {
		// Check for context cancellation between scenarios
		select {
		case <-ctx.Done():
			return result
		default:
		}

		scenarioResult := e.Run(sc)
		result.Results = append(result.Results, scenarioResult)

		if scenarioResult.Skipped {
			result.SkipCount++
		} else if scenarioResult.Passed {
			result.PassCount++
		} else {
			result.FailCount++
		}

		if e.config.OnScenarioComplete != nil {
			e.config.OnScenarioComplete(scenarioResult)
		}

		if !scenarioResult.Passed && !scenarioResult.Skipped && e.config.StopOnFirstFailure {
			break
		}
	}

	return result
}

// parseViolations maps YAML violation names to probe flags.
func parseViolations(names []string) (probe.Violation, error) {
	var v probe.Violation
	for _, name := range names {
		switch name {
		case "allow_null_values":
			v |= probe.AllowNullValues
		case "request_overflow":
			v |= probe.RequestOverflow
		default:
			return 0, fmt.Errorf("unknown violation %q", name)
		}
	}
	return v, nil
}
