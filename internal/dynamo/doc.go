// Package dynamo provides the shared primitives of the spring bone runtime.
//
// It holds the domain errors every layer reports through and the fork/join
// helpers the per-frame stages are scheduled with:
//
//   - [ParallelFor]: split [0, n) into contiguous ranges and join
//   - [Ranges] / [ForEachRange]: the same split, for partition-then-merge work
//   - [ActivationError]: context for a failed chain activation
//
// # Thread Safety
//
// The helpers spawn short-lived goroutines and return only after all of
// them finished. There are no background workers.
package dynamo
