package fiber

// switchMessage is the structured instruction exchanged alongside each
// raw context transfer. The transfer itself carries control only, which
// is too little for a boxed task, a stack handle or a future, so the
// instruction travels through the scheduler's single-slot mailbox. At
// most one transfer is ever in flight per scheduler, which is what
// makes a single slot sufficient.
type switchMessage interface {
	isSwitchMessage()
}

// startTask instructs a freshly created context to run task, carrying
// ownership of the fiber's stack across the first transfer.
type startTask struct {
	stack  *Stack
	handle Handle
	task   func(*Await)
}

// waitFuture instructs the scheduler side to register step with the
// reactor and drive it until it reports completion, then resume the
// suspended fiber.
type waitFuture struct {
	step   func(Waker) bool
	handle Handle
}

// resumeFiber resumes a suspended fiber whose awaited future resolved.
type resumeFiber struct{}

// cleanupFiber resumes a suspended fiber for teardown; its pending Wait
// returns ErrDropped.
type cleanupFiber struct{}

// destroyStack carries a finished fiber's stack back to its resumer,
// which performs the release. Code cannot free the stack it is
// executing on, so the trampoline defers the free across the boundary.
type destroyStack struct {
	stack *Stack
}

func (startTask) isSwitchMessage()    {}
func (waitFuture) isSwitchMessage()   {}
func (resumeFiber) isSwitchMessage()  {}
func (cleanupFiber) isSwitchMessage() {}
func (destroyStack) isSwitchMessage() {}

// mailbox is the single-slot side channel pairing one switchMessage
// with each raw transfer. Framing invariant: between a transfer out and
// the paired transfer in, exactly one message is pending. A non-empty
// slot on put, or an empty slot on take, means switch pairing broke,
// which is a fatal engine fault, not a recoverable error.
type mailbox struct {
	msg switchMessage
}

func (b *mailbox) put(m switchMessage) {
	if b.msg != nil {
		panic("fiber: leftover switch instruction")
	}
	b.msg = m
}

func (b *mailbox) take() switchMessage {
	m := b.msg
	if m == nil {
		panic("fiber: missing switch instruction")
	}
	b.msg = nil
	return m
}
