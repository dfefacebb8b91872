//go:build !nocoro

package fiber

import (
	_ "unsafe"
)

// coroutine represents a native Go coroutine instance. It's an opaque
// struct used by the runtime functions.
type coroutine struct{}

//go:linkname newcoro runtime.newcoro
func newcoro(func(*coroutine)) *coroutine

//go:linkname coroswitch runtime.coroswitch
func coroswitch(*coroutine)

// execContext is saved execution state bound to an entry point: the
// narrow create/switch abstraction the engine builds on. This target
// uses the runtime's coroutine support, the cheapest context switch
// available to Go code. The raw switch carries no payload; the
// scheduler's mailbox carries the switch instruction alongside it.
//
// The switch is symmetric. Calling switchTo from outside the context
// enters it (running the entry on first use) and blocks the caller
// until control is transferred back; calling switchTo from inside
// transfers back to whichever context entered it last.
type execContext struct {
	c    *coroutine
	done bool
}

// newExecContext creates a context bound to entry. Nothing runs until
// the first switchTo. The stack region associated with the fiber is
// tracked by the scheduler's context records, not by this target; the
// runtime manages the machine stack the entry executes on.
func newExecContext(entry func()) *execContext {
	x := &execContext{}
	x.c = newcoro(func(*coroutine) {
		entry()
		x.done = true
	})
	return x
}

// switchTo performs one symmetric transfer. The entry returning acts as
// the context's final transfer out; switching to a terminated context
// is an engine invariant violation.
func (x *execContext) switchTo() {
	if x.done {
		panic("fiber: switch to terminated execution context")
	}
	coroswitch(x.c)
}
