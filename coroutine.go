package fiber

// Coroutine is a configuration builder for spawning one fiber. Zero or
// more option calls chain off New before Spawn consumes the builder.
type Coroutine struct {
	handle    Handle
	stackSize int
}

// New returns a builder spawning on h's core with the default stack
// size.
func New(h Handle) *Coroutine {
	return &Coroutine{handle: h, stackSize: DefaultStackSize}
}

// StackSize sets the fiber's stack reservation to n bytes. n must be a
// positive multiple of the system page size; Spawn reports a StackError
// otherwise.
func (c *Coroutine) StackSize(n int) *Coroutine {
	c.stackSize = n
	return c
}

// taskResult carries a finished task's outcome through the join cell:
// exactly one of value or panicked is meaningful.
type taskResult[R any] struct {
	value    R
	panicked *PanicError
}

// JoinHandle is a future resolving with the spawned task's return
// value. A task that panicked resolves the handle with the captured
// *PanicError; a handle whose core was dropped before the result was
// delivered resolves with ErrLost. Dropping the handle without polling
// it discards the result silently.
type JoinHandle[R any] struct {
	cell *oneshotCell[taskResult[R]]
}

// Poll implements Future[R].
func (h *JoinHandle[R]) Poll(w Waker) (R, bool, error) {
	res, resolved, lost := h.cell.poll(w)
	var zero R
	if !resolved {
		return zero, false, nil
	}
	if lost {
		return zero, true, ErrLost
	}
	if res.panicked != nil {
		return zero, true, res.panicked
	}
	return res.value, true, nil
}

// Spawn starts task as a new fiber and returns a handle to its result.
// The fiber runs eagerly: it executes on the caller's thread up to its
// first suspension point (or completion) before Spawn returns. A panic
// inside task is confined to that fiber; it unwinds the fiber's stack,
// resolves the handle with a *PanicError, and the rest of the program
// continues.
func Spawn[R any](c *Coroutine, task func(*Await) R) (*JoinHandle[R], error) {
	stack, err := allocStack(c.stackSize)
	if err != nil {
		return nil, err
	}

	core := c.handle.core
	if core.logger.Debug().Enabled() {
		core.logger.Debug().
			Int("stack_size", stack.Size()).
			Log("spawning fiber")
	}

	cell := &oneshotCell[taskResult[R]]{}
	boxed := func(aw *Await) {
		var res taskResult[R]
		func() {
			defer func() {
				if p := recover(); p != nil {
					res.panicked = newPanicError(p)
					core.logger.Err().
						Err(res.panicked).
						Log("fiber panicked")
				}
			}()
			res.value = task(aw)
		}()
		if res.panicked == nil {
			core.logger.Debug().Log("fiber completed")
		}
		cell.send(res)
	}

	var ctx *execContext
	ctx = newExecContext(func() {
		core.sched.trampoline(ctx)
	})
	core.sched.runChild(ctx, startTask{
		stack:  stack,
		handle: c.handle,
		task:   boxed,
	})
	return &JoinHandle[R]{cell: cell}, nil
}
