package engine

import (
	"fmt"
	"sort"
	"strings"
)

// checkSubscribers compares the live subscriber count.
func checkSubscribers(key string, expected interface{}, state *ExecutionState) *ExpectResult {
	return intResult(key, expected, int64(state.Publisher.SubscriberCount()))
}

// checkMinRequested compares the lowest outstanding demand across live
// subscriptions.
func checkMinRequested(key string, expected interface{}, state *ExecutionState) *ExpectResult {
	return intResult(key, expected, state.Publisher.MinRequested())
}

// checkMaxRequested compares the highest outstanding demand across live
// subscriptions.
func checkMaxRequested(key string, expected interface{}, state *ExecutionState) *ExpectResult {
	return intResult(key, expected, state.Publisher.MaxRequested())
}

// checkCancellations compares the cancellation counter.
func checkCancellations(key string, expected interface{}, state *ExecutionState) *ExpectResult {
	return intResult(key, expected, int64(state.Publisher.Cancellations()))
}

// checkOverflown compares the demand overflow flag.
func checkOverflown(key string, expected interface{}, state *ExecutionState) *ExpectResult {
	return boolResult(key, expected, state.Publisher.HasOverflown())
}

// checkTerminated compares the terminal state of the probe.
func checkTerminated(key string, expected interface{}, state *ExecutionState) *ExpectResult {
	return boolResult(key, expected, state.Publisher.IsTerminated())
}

// checkValues compares the recorded values of each named consumer, in
// delivery order.
func checkValues(key string, expected interface{}, state *ExecutionState) *ExpectResult {
	byConsumer, ok := expected.(map[string]interface{})
	if !ok {
		return failed(key, expected, nil, fmt.Sprintf("values expects a mapping of consumer to list, got %T", expected))
	}

	actual := make(map[string][]string, len(byConsumer))
	var problems []string
	for _, name := range sortedKeys(byConsumer) {
		r := state.consumer(name)
		if r == nil {
			problems = append(problems, fmt.Sprintf("consumer %q never attached", name))
			continue
		}
		got := r.Values()
		actual[name] = got

		want, err := stringList(byConsumer[name])
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if !equalStrings(want, got) {
			problems = append(problems, fmt.Sprintf("%s: expected %v, got %v", name, want, got))
		}
	}

	if len(problems) > 0 {
		return failed(key, expected, actual, strings.Join(problems, "; "))
	}
	return passed(key, expected, actual, "values match")
}

// checkCompleted verifies each named consumer observed completion.
func checkCompleted(key string, expected interface{}, state *ExecutionState) *ExpectResult {
	names, err := stringList(expected)
	if err != nil {
		return failed(key, expected, nil, "completed expects a list of consumer names: "+err.Error())
	}

	actual := make(map[string]bool, len(names))
	var problems []string
	for _, name := range names {
		r := state.consumer(name)
		if r == nil {
			problems = append(problems, fmt.Sprintf("consumer %q never attached", name))
			continue
		}
		actual[name] = r.Completed()
		if !r.Completed() {
			problems = append(problems, fmt.Sprintf("%s: not completed", name))
		}
	}

	if len(problems) > 0 {
		return failed(key, expected, actual, strings.Join(problems, "; "))
	}
	return passed(key, expected, actual, "all completed")
}

// checkErrors verifies each named consumer observed a terminal error
// containing the expected message.
func checkErrors(key string, expected interface{}, state *ExecutionState) *ExpectResult {
	byConsumer, ok := expected.(map[string]interface{})
	if !ok {
		return failed(key, expected, nil, fmt.Sprintf("errors expects a mapping of consumer to message, got %T", expected))
	}

	actual := make(map[string]string, len(byConsumer))
	var problems []string
	for _, name := range sortedKeys(byConsumer) {
		want, ok := byConsumer[name].(string)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: expected message must be a string, got %T", name, byConsumer[name]))
			continue
		}
		r := state.consumer(name)
		if r == nil {
			problems = append(problems, fmt.Sprintf("consumer %q never attached", name))
			continue
		}
		err := r.Err()
		if err == nil {
			problems = append(problems, fmt.Sprintf("%s: no terminal error", name))
			continue
		}
		actual[name] = err.Error()
		if !strings.Contains(err.Error(), want) {
			problems = append(problems, fmt.Sprintf("%s: error %q does not contain %q", name, err.Error(), want))
		}
	}

	if len(problems) > 0 {
		return failed(key, expected, actual, strings.Join(problems, "; "))
	}
	return passed(key, expected, actual, "errors match")
}

func intResult(key string, expected interface{}, actual int64) *ExpectResult {
	want, err := demandValue(expected)
	if err != nil {
		return failed(key, expected, actual, err.Error())
	}
	if want != actual {
		return failed(key, expected, actual, fmt.Sprintf("expected %d, got %d", want, actual))
	}
	return passed(key, expected, actual, fmt.Sprintf("%s = %d", key, actual))
}

func boolResult(key string, expected interface{}, actual bool) *ExpectResult {
	want, ok := expected.(bool)
	if !ok {
		return failed(key, expected, actual, fmt.Sprintf("expected a boolean, got %T", expected))
	}
	if want != actual {
		return failed(key, expected, actual, fmt.Sprintf("expected %v, got %v", want, actual))
	}
	return passed(key, expected, actual, fmt.Sprintf("%s = %v", key, actual))
}

func passed(key string, expected, actual interface{}, msg string) *ExpectResult {
	return &ExpectResult{Key: key, Expected: expected, Actual: actual, Passed: true, Message: msg}
}

func failed(key string, expected, actual interface{}, msg string) *ExpectResult {
	return &ExpectResult{Key: key, Expected: expected, Actual: actual, Passed: false, Message: msg}
}

// stringList normalizes a YAML list to strings.
func stringList(raw interface{}) ([]string, error) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", raw)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, fmt.Sprintf("%v", item))
	}
	return out, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
