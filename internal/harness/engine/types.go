// Package engine executes probe scenarios against recording consumers.
package engine

import (
	"time"

	"github.com/streamprobe/streamprobe-go/internal/harness/loader"
	"github.com/streamprobe/streamprobe-go/pkg/probe"
	"github.com/streamprobe/streamprobe-go/pkg/record"
	"github.com/streamprobe/streamprobe-go/pkg/sink"
)

// ScenarioResult represents the outcome of a single scenario.
type ScenarioResult struct {
	// Scenario is the scenario that was executed.
	Scenario *loader.Scenario

	// Passed indicates if all steps passed.
	Passed bool

	// Error is the error that caused failure, if any.
	Error error

	// StepResults contains results for each executed step.
	StepResults []*StepResult

	// Duration is how long the scenario took.
	Duration time.Duration

	// StartTime when the scenario started.
	StartTime time.Time

	// EndTime when the scenario finished.
	EndTime time.Time

	// Skipped indicates the scenario was not executed.
	Skipped bool

	// SkipReason explains why the scenario was skipped.
	SkipReason string
}

// StepResult represents the outcome of a single step.
type StepResult struct {
	// Step is the step that was executed.
	Step *loader.Step

	// StepIndex is the index of this step (0-based).
	StepIndex int

	// Passed indicates if the step passed.
	Passed bool

	// Error is the error that caused failure, if any.
	Error error

	// ExpectResults maps expectation keys to their outcomes.
	ExpectResults map[string]*ExpectResult

	// Duration is how long the step took.
	Duration time.Duration
}

// ExpectResult represents the result of checking one expectation.
type ExpectResult struct {
	// Key is the expectation key (e.g., "subscribers").
	Key string

	// Expected is the expected value.
	Expected interface{}

	// Actual is the observed value.
	Actual interface{}

	// Passed indicates if the expectation was met.
	Passed bool

	// Message describes the result.
	Message string
}

// SuiteResult represents the outcome of running a set of scenarios.
type SuiteResult struct {
	// SuiteName identifies the scenario set.
	SuiteName string

	// Results contains results for each scenario.
	Results []*ScenarioResult

	// PassCount is the number of passed scenarios.
	PassCount int

	// FailCount is the number of failed scenarios.
	FailCount int

	// SkipCount is the number of skipped scenarios.
	SkipCount int

	// Duration is the total time for all scenarios.
	Duration time.Duration
}

// ExecutionState holds the probe and its consumers during one scenario
// run. Every scenario gets a fresh state.
type ExecutionState struct {
	// Publisher is the probe under the scenario's control.
	Publisher *probe.Publisher[string]

	// Consumers maps consumer names to their recorders.
	Consumers map[string]*sink.Recorder[string]
}

// consumer returns the named recorder, or nil if never attached.
func (s *ExecutionState) consumer(name string) *sink.Recorder[string] {
	return s.Consumers[name]
}

// ActionHandler executes one scenario step against the state.
type ActionHandler func(step *loader.Step, state *ExecutionState) error

// ExpectChecker checks one expectation key against the state.
type ExpectChecker func(key string, expected interface{}, state *ExecutionState) *ExpectResult

// Config configures the scenario engine.
type Config struct {
	// Logger captures probe transcripts for every scenario run.
	// Defaults to record.NoopLogger.
	Logger record.Logger

	// StopOnFirstFailure stops suite execution after the first failed
	// scenario.
	StopOnFirstFailure bool

	// OnScenarioComplete is called after each scenario in a suite run.
	OnScenarioComplete func(*ScenarioResult)
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Logger: record.NoopLogger{},
	}
}
