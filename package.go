// Package fiber provides stackful green fibers for Go, cooperatively
// scheduled on a single thread of an external event loop. A fiber runs
// ordinary blocking-style code and can suspend at arbitrary call depth
// while waiting on an asynchronous value, then resume later without
// blocking the scheduler or unwinding its call stack.
//
// A fiber is started with the Spawn function, configured through the
// Coroutine builder returned by New. Spawning is eager: the task runs
// immediately, on its own stack, until it first suspends or completes,
// and only then does Spawn return. The returned JoinHandle is a future
// that resolves with the task's result (or the payload of a panic the
// task raised, isolated at the fiber boundary).
//
// Within a fiber, the Await parameter is the suspension capability.
// Wait suspends the calling fiber until a Future resolves, registering
// it with the event loop so other fibers keep running in the meantime.
// Iterate, Producer and the pipe/oneshot channels are thin compositions
// of Wait that add lazy stream consumption and backpressured handoff.
//
// The package multiplexes a structured switch instruction alongside each
// raw context transfer: the transfer itself carries control only, and a
// single-slot mailbox owned by the scheduler carries the instruction
// (start this task, wait on this future, resume, destroy this stack).
// Mismatched pairings indicate a broken engine invariant and panic
// rather than being reported as recoverable errors.
//
// The event loop is external to this package: a Core wraps one
// (github.com/joeycumines/go-eventloop), hands out cloneable Handles,
// and guarantees on Shutdown that every still-suspended fiber is resumed
// exactly once with a cancellation, observed as ErrDropped from Wait.
package fiber
