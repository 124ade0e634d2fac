package probe

import (
	"fmt"
	"strings"
	"testing"
)

// fakeT captures assertion failures without failing the real test.
type fakeT struct {
	failures []string
	helpers  int
}

func (f *fakeT) Errorf(format string, args ...any) {
	f.failures = append(f.failures, fmt.Sprintf(format, args...))
}

func (f *fakeT) Helper() { f.helpers++ }

func TestAssertionsPassOnMatchingState(t *testing.T) {
	pub := New[string]()
	pub.Subscribe(&testConsumer[string]{requestOnSubscribe: 5})
	pub.Subscribe(&testConsumer[string]{requestOnSubscribe: 10})

	ft := &fakeT{}
	pub.AssertSubscribers(ft).
		AssertSubscriberCount(ft, 2).
		AssertMinRequested(ft, 5).
		AssertMaxRequested(ft, 10).
		AssertNotCancelled(ft).
		AssertCancellations(ft, 0).
		AssertNoRequestOverflow(ft)

	if len(ft.failures) != 0 {
		t.Errorf("unexpected failures: %v", ft.failures)
	}
	if ft.helpers == 0 {
		t.Error("assertions did not mark themselves as helpers")
	}
}

func TestAssertionFailureMessages(t *testing.T) {
	tests := []struct {
		name   string
		setup  func() *Publisher[string]
		assert func(*Publisher[string], TestingT)
		want   string
	}{
		{
			name:   "subscribers expected",
			setup:  func() *Publisher[string] { return New[string]() },
			assert: func(p *Publisher[string], ft TestingT) { p.AssertSubscribers(ft) },
			want:   "expected subscribers, got none",
		},
		{
			name: "subscriber count mismatch",
			setup: func() *Publisher[string] {
				p := New[string]()
				p.Subscribe(&testConsumer[string]{})
				return p
			},
			assert: func(p *Publisher[string], ft TestingT) { p.AssertSubscriberCount(ft, 3) },
			want:   "expected 3 subscribers, got 1",
		},
		{
			name: "no subscribers expected",
			setup: func() *Publisher[string] {
				p := New[string]()
				p.Subscribe(&testConsumer[string]{})
				return p
			},
			assert: func(p *Publisher[string], ft TestingT) { p.AssertNoSubscribers(ft) },
			want:   "expected no subscribers, got 1",
		},
		{
			name: "minimum demand too low",
			setup: func() *Publisher[string] {
				p := New[string]()
				p.Subscribe(&testConsumer[string]{requestOnSubscribe: 2})
				return p
			},
			assert: func(p *Publisher[string], ft TestingT) { p.AssertMinRequested(ft, 5) },
			want:   "expected minimum demand of 5, got 2",
		},
		{
			name: "maximum demand too high",
			setup: func() *Publisher[string] {
				p := New[string]()
				p.Subscribe(&testConsumer[string]{requestOnSubscribe: 9})
				return p
			},
			assert: func(p *Publisher[string], ft TestingT) { p.AssertMaxRequested(ft, 5) },
			want:   "expected maximum demand of 5, got 9",
		},
		{
			name:   "cancellation expected",
			setup:  func() *Publisher[string] { return New[string]() },
			assert: func(p *Publisher[string], ft TestingT) { p.AssertCancelled(ft) },
			want:   "expected at least 1 cancellation",
		},
		{
			name: "cancellation count mismatch",
			setup: func() *Publisher[string] {
				p := New[string]()
				p.Subscribe(&testConsumer[string]{cancelOnSubscribe: true})
				return p
			},
			assert: func(p *Publisher[string], ft TestingT) { p.AssertCancellations(ft, 2) },
			want:   "expected 2 cancellations, got 1",
		},
		{
			name: "no cancellation expected",
			setup: func() *Publisher[string] {
				p := New[string]()
				p.Subscribe(&testConsumer[string]{cancelOnSubscribe: true})
				return p
			},
			assert: func(p *Publisher[string], ft TestingT) { p.AssertNotCancelled(ft) },
			want:   "expected no cancellations, got 1",
		},
		{
			name: "overflow expected",
			setup: func() *Publisher[string] {
				return NewNoncompliant[string](RequestOverflow)
			},
			assert: func(p *Publisher[string], ft TestingT) { p.AssertRequestOverflow(ft) },
			want:   "expected demand overflow",
		},
		{
			name: "overflow unexpected",
			setup: func() *Publisher[string] {
				p := NewNoncompliant[string](RequestOverflow)
				p.Subscribe(&testConsumer[string]{})
				p.Next("a")
				return p
			},
			assert: func(p *Publisher[string], ft TestingT) { p.AssertNoRequestOverflow(ft) },
			want:   "unexpected demand overflow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeT{}
			tt.assert(tt.setup(), ft)

			if len(ft.failures) != 1 {
				t.Fatalf("got %d failures (%v), want 1", len(ft.failures), ft.failures)
			}
			if !strings.Contains(ft.failures[0], tt.want) {
				t.Errorf("failure = %q, want substring %q", ft.failures[0], tt.want)
			}
		})
	}
}

func TestAssertionsChain(t *testing.T) {
	pub := New[string]()
	ft := &fakeT{}

	if got := pub.AssertNoSubscribers(ft).AssertNotCancelled(ft); got != pub {
		t.Error("assertions must return the same publisher")
	}
}

func TestAssertionsWorkWithBareErrorf(t *testing.T) {
	// A TestingT without Helper must still be usable.
	pub := New[string]()
	ft := bareT{failures: &[]string{}}

	pub.AssertSubscribers(ft)

	if len(*ft.failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(*ft.failures))
	}
}

// bareT implements only Errorf.
type bareT struct {
	failures *[]string
}

func (b bareT) Errorf(format string, args ...any) {
	*b.failures = append(*b.failures, fmt.Sprintf(format, args...))
}
