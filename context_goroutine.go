//go:build nocoro

package fiber

// execContext is the portable target of the create/switch abstraction:
// a goroutine parked on a rendezvous channel. Both sides of a transfer
// run the same send-then-receive handshake on the unbuffered channel,
// so control alternates strictly and at most one side executes at a
// time, matching the runtime-coroutine target's semantics at a higher
// switch cost.
type execContext struct {
	entry   func()
	ch      chan struct{}
	started bool
	done    bool
}

func newExecContext(entry func()) *execContext {
	return &execContext{
		entry: entry,
		ch:    make(chan struct{}),
	}
}

func (x *execContext) switchTo() {
	if x.done {
		panic("fiber: switch to terminated execution context")
	}
	if !x.started {
		x.started = true
		go func() {
			<-x.ch
			x.entry()
			x.done = true
			// Final transfer out; the goroutine exits afterwards.
			x.ch <- struct{}{}
		}()
	}
	x.ch <- struct{}{}
	<-x.ch
}
