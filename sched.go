package fiber

// fiberRecord is the bookkeeping for one active fiber: the handle it
// suspends against, the execution context used to enter and leave it,
// and the stack it owns while running.
type fiberRecord struct {
	handle Handle
	ctx    *execContext
	stack  *Stack
}

// scheduler is the per-Core switch state: the mailbox and the ordered
// list of active fiber records. The record list's depth equals the
// number of currently active (not suspended) fibers nested on the
// core's thread: records are pushed on entry and resume, popped on
// suspend and exit. That is what lets Wait and nested Spawn resolve
// "current fiber" at arbitrary call depth.
//
// The state is owned by a single logical thread of execution: the
// bootstrap goroutine before the loop is driven, fibers and loop tasks
// afterwards. It is never accessed concurrently under correct use; the
// mailbox framing asserts catch violations.
type scheduler struct {
	box     mailbox
	records []*fiberRecord
}

func (s *scheduler) push(r *fiberRecord) {
	s.records = append(s.records, r)
}

func (s *scheduler) pop() *fiberRecord {
	n := len(s.records)
	if n == 0 {
		panic("fiber: not inside a coroutine")
	}
	r := s.records[n-1]
	s.records[n-1] = nil
	s.records = s.records[:n-1]
	return r
}

// current returns the innermost active fiber's record.
func (s *scheduler) current() *fiberRecord {
	n := len(s.records)
	if n == 0 {
		panic("fiber: not inside a coroutine")
	}
	return s.records[n-1]
}

// runChild enters or resumes a fiber with the given instruction, blocks
// until the fiber transfers back, and dispatches whatever instruction
// it left behind: destroyStack when it finished (free the stack here,
// on the parent's stack), waitFuture when it suspended (hand the poll
// step to the reactor).
func (s *scheduler) runChild(ctx *execContext, msg switchMessage) {
	s.box.put(msg)
	ctx.switchTo()
	switch out := s.box.take().(type) {
	case destroyStack:
		out.stack.free()
	case waitFuture:
		out.handle.core.registerWait(&waitTask{
			core: out.handle.core,
			ctx:  ctx,
			step: out.step,
		})
	default:
		panic("fiber: invalid switch instruction when switching out")
	}
}

// trampoline is the fixed entry point executed on a new context upon
// the first transfer into it. It adopts the start instruction, makes
// the fiber current, runs the task (the task closure owns the panic
// boundary and result delivery), then hands its stack back to the
// resumer for destruction. The trampoline cannot free the stack it is
// executing on.
func (s *scheduler) trampoline(ctx *execContext) {
	start, ok := s.box.take().(startTask)
	if !ok {
		panic("fiber: invalid switch instruction on coroutine entry")
	}
	rec := &fiberRecord{handle: start.handle, ctx: ctx, stack: start.stack}
	s.push(rec)
	start.task(&Await{sched: s, rec: rec})
	if s.pop() != rec {
		panic("fiber: coroutine context stack corrupted")
	}
	s.box.put(destroyStack{stack: rec.stack})
	// Returning performs the final transfer back to the resumer.
}
