// Package examples provides reference subscriber implementations
// demonstrating how to build demand-aware consumers on top of the stream
// interfaces.
//
// The example implementations show:
//   - Bounded demand negotiation (request only what you can buffer)
//   - Re-requesting after consuming a window of values
//   - Early cancellation once a consumer has seen enough
//   - Terminal handling (flushing buffered work on error or completion)
//
// Available examples:
//   - Batcher: buffers values into fixed-size batches and requests one
//     batch worth of demand at a time
//   - Taker: consumes exactly n values and then cancels
//
// These examples can serve as templates for real consumer implementations,
// and their tests show how to exercise a consumer against probe.Publisher.
package examples
