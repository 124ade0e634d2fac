// Package sink provides a recording consumer for driving publishers in
// tests.
//
// A Recorder implements stream.Subscriber and keeps everything it
// receives: values in arrival order, the terminal error, and whether the
// stream completed. Demand policy is configured up front:
//
//	r := sink.NewRecorder[string](sink.WithInitialDemand(5))
//	pub.Subscribe(r)
//
//	pub.Next("a").Complete()
//	<-r.Done()
//
//	values := r.Values() // ["a"]
//
// WithDemandOnNext keeps a stream flowing by re-requesting after each
// value; WithCancelAfter cancels the subscription once enough values have
// arrived.
package sink
