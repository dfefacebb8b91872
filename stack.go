package fiber

import "os"

// DefaultStackSize is the usable stack size, in bytes, used by fibers
// spawned from an unconfigured builder. It is a multiple of every page
// size in common use.
const DefaultStackSize = 1 << 20

// Stack is a fiber's dedicated, guard-paged stack region. The region is
// owned by the fiber's context record while the fiber runs; when the
// fiber finishes, ownership travels back across the final context
// transfer (inside the destroy instruction) so that the resumer, which
// executes on a different stack, performs the release.
//
// Both execution-context targets in this package run fiber frames on
// goroutine stacks managed by the Go runtime, so the region is an
// address-space reservation: it preserves the allocation, validation
// and ownership-handoff semantics of the stack lifecycle, and gives
// targets with caller-provided machine stacks a region to bind. The
// reserved pages are never touched, so they cost no physical memory.
type Stack struct {
	mem   []byte
	size  int
	freed bool
}

// allocStack reserves a guard-paged region with size usable bytes. The
// size must be a positive multiple of the platform page size; anything
// else fails synchronously with a StackError before any code runs on
// the new stack.
func allocStack(size int) (*Stack, error) {
	page := os.Getpagesize()
	if size <= 0 || size%page != 0 {
		return nil, &StackError{Size: size, Err: ErrInvalidStackSize}
	}
	mem, err := reserveStack(size + page)
	if err != nil {
		return nil, &StackError{Size: size, Err: err}
	}
	return &Stack{mem: mem, size: size}, nil
}

// Size returns the usable stack size in bytes, excluding the guard
// page.
func (s *Stack) Size() int {
	return s.size
}

// free releases the region. The caller must guarantee no execution
// context bound to this stack is current; the engine guarantees this by
// only freeing after the owning fiber's final transfer out.
func (s *Stack) free() {
	if s.freed {
		panic("fiber: double free of fiber stack")
	}
	s.freed = true
	releaseStack(s.mem)
}
