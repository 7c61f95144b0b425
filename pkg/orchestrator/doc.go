// Package orchestrator wires the proposal pipeline: load a trip document,
// apply transformers, shape it into a view model, render it with a
// registered engine and optionally write the result to disk.
package orchestrator
