package fiber

// Await is the suspension capability handed to a fiber's task function.
// It is valid only inside that fiber, on the core's thread of execution,
// for the task's duration; it must not be stored past the task's return
// or moved to another goroutine.
type Await struct {
	sched *scheduler
	rec   *fiberRecord
}

// Handle returns a spawn capability for the core this fiber runs on,
// for spawning child fibers and creating timers from inside a task.
func (aw *Await) Handle() Handle {
	return aw.rec.handle
}

type cellState uint8

const (
	cellArmed cellState = iota
	cellFulfilled
	cellCancelled
)

// resultCell is the single-use handoff slot between a suspended fiber
// and the poll step running on the reactor. It lives on the suspended
// fiber's stack; the step writes the result there before the fiber is
// resumed to read it. Cancelled marks a teardown resume, after which a
// late wake must not poll the future again.
type resultCell[T any] struct {
	state cellState
	v     T
	err   error
}

// Wait suspends the calling fiber until fut resolves, then returns its
// result. The future is polled on the core's loop; while suspended the
// fiber's stack is parked and the thread runs other work. If the core
// shuts down before resolution, Wait returns ErrDropped and the future
// is never polled again.
//
// Wait panics when aw does not belong to the innermost running fiber:
// calling it outside any fiber, or with an Await captured from a
// different (or finished) fiber.
func Wait[T any](aw *Await, fut Future[T]) (T, error) {
	s := aw.sched
	cur := s.current()
	if cur != aw.rec {
		panic("fiber: await used outside its coroutine")
	}
	s.pop()

	var cell resultCell[T]
	step := func(w Waker) bool {
		if cell.state == cellCancelled {
			return false
		}
		v, ok, err := fut.Poll(w)
		if !ok {
			return false
		}
		cell.v = v
		cell.err = err
		cell.state = cellFulfilled
		return true
	}

	s.box.put(waitFuture{step: step, handle: cur.handle})
	cur.ctx.switchTo()

	reply := s.box.take()
	s.push(cur)
	switch reply.(type) {
	case resumeFiber:
		if cell.state != cellFulfilled {
			panic("fiber: resumed without a result")
		}
		return cell.v, cell.err
	case cleanupFiber:
		cell.state = cellCancelled
		var zero T
		return zero, ErrDropped
	default:
		panic("fiber: invalid switch instruction on wakeup")
	}
}

// YieldNow suspends the fiber for one round trip through the reactor,
// letting other ready work run before it continues. Returns ErrDropped
// if the core shuts down while yielded.
func (aw *Await) YieldNow() error {
	_, err := Wait(aw, Ready(struct{}{}))
	return err
}
