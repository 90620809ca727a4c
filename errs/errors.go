// Package errs collects the sentinel errors the update queue can surface.
// Errors are wrapped with fmt.Errorf("...: %w", ...) at the call site that
// has the most context, matching the plain stdlib errors convention used
// throughout the go-ethereum codebase this module is grounded on.
package errs

import "errors"

var (
	// ErrInvalidPayload is raised when an update's payload is neither a
	// State map, a ReducerFunc, a RootPayload, nor nil.
	ErrInvalidPayload = errors.New("updatequeue: invalid update payload")

	// ErrInvalidCallback names the misuse of supplying a non-function value
	// as an update's callback. No code path in this module returns it:
	// Update.Callback is typed func(Instance), so such a value cannot be set.
	ErrInvalidCallback = errors.New("updatequeue: invalid update callback")

	// ErrEmptyQueue is raised (as a panic, by ProcessQueue) when a node has
	// no queue header at all. A header whose update chain is empty does not
	// raise it.
	ErrEmptyQueue = errors.New("updatequeue: queue has no pending updates")

	// ErrCallbackPanicked wraps a recovered panic from a commit-phase
	// callback. The core guarantees every other callback in the chain
	// still fires; this error is collected, not fatal.
	ErrCallbackPanicked = errors.New("updatequeue: commit callback panicked")

	// ErrReducerPanicked wraps a recovered panic from a reducer payload
	// function invoked during processing.
	ErrReducerPanicked = errors.New("updatequeue: reducer payload panicked")
)
