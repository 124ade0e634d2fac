package probe

// TestingT is the subset of testing.T the assertions need.
// *testing.T and *testing.B satisfy it.
type TestingT interface {
	Errorf(format string, args ...any)
}

// tHelper marks assertion methods as helpers so failures are reported at
// the caller's line.
type tHelper interface {
	Helper()
}

// AssertSubscribers fails t unless at least one subscriber is registered.
// It returns the publisher for chaining.
func (p *Publisher[T]) AssertSubscribers(t TestingT) *Publisher[T] {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if p.SubscriberCount() == 0 {
		t.Errorf("expected subscribers, got none")
	}
	return p
}

// AssertSubscriberCount fails t unless exactly n subscribers are
// registered.
func (p *Publisher[T]) AssertSubscriberCount(t TestingT, n int) *Publisher[T] {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if count := p.SubscriberCount(); count != n {
		t.Errorf("expected %d subscribers, got %d", n, count)
	}
	return p
}

// AssertNoSubscribers fails t if any subscriber is registered.
func (p *Publisher[T]) AssertNoSubscribers(t TestingT) *Publisher[T] {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if count := p.SubscriberCount(); count != 0 {
		t.Errorf("expected no subscribers, got %d", count)
	}
	return p
}

// AssertMinRequested fails t if any registered subscriber has remaining
// demand below n.
func (p *Publisher[T]) AssertMinRequested(t TestingT, n int64) *Publisher[T] {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if min := p.MinRequested(); min < n {
		t.Errorf("expected minimum demand of %d, got %d", n, min)
	}
	return p
}

// AssertMaxRequested fails t if any registered subscriber has remaining
// demand above n.
func (p *Publisher[T]) AssertMaxRequested(t TestingT, n int64) *Publisher[T] {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if max := p.MaxRequested(); max > n {
		t.Errorf("expected maximum demand of %d, got %d", n, max)
	}
	return p
}

// AssertCancelled fails t unless at least one subscription has been
// cancelled.
func (p *Publisher[T]) AssertCancelled(t TestingT) *Publisher[T] {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if p.Cancellations() == 0 {
		t.Errorf("expected at least 1 cancellation, got none")
	}
	return p
}

// AssertCancellations fails t unless exactly n subscriptions have been
// cancelled.
func (p *Publisher[T]) AssertCancellations(t TestingT, n int) *Publisher[T] {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if count := p.Cancellations(); count != n {
		t.Errorf("expected %d cancellations, got %d", n, count)
	}
	return p
}

// AssertNotCancelled fails t if any subscription has been cancelled.
func (p *Publisher[T]) AssertNotCancelled(t TestingT) *Publisher[T] {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if count := p.Cancellations(); count != 0 {
		t.Errorf("expected no cancellations, got %d", count)
	}
	return p
}

// AssertRequestOverflow fails t unless a value was delivered past a
// subscriber's demand.
func (p *Publisher[T]) AssertRequestOverflow(t TestingT) *Publisher[T] {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if !p.HasOverflown() {
		t.Errorf("expected demand overflow, got none")
	}
	return p
}

// AssertNoRequestOverflow fails t if a value was ever delivered past a
// subscriber's demand.
func (p *Publisher[T]) AssertNoRequestOverflow(t TestingT) *Publisher[T] {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if p.HasOverflown() {
		t.Errorf("unexpected demand overflow")
	}
	return p
}
