package fiber

import (
	"errors"
	"fmt"
)

var (
	// ErrDropped is returned by Wait when the reactor shut down before
	// the awaited future had a chance to resolve. The suspended fiber is
	// resumed exactly once with this error and should unwind normally.
	ErrDropped = errors.New("fiber: reactor dropped before the future resolved")

	// ErrLost is reported by a JoinHandle whose result channel was
	// closed without a result ever being sent. The trampoline always
	// sends a result before handing its stack back, so this is a
	// defensive case rather than an expected one.
	ErrLost = errors.New("fiber: fiber result lost")

	// ErrEndOfStream is the sentinel a Stream resolves with once it is
	// exhausted. Iterate terminates on it without yielding.
	ErrEndOfStream = errors.New("fiber: end of stream")

	// ErrPipeClosed is resolved by a pending Send on a pipe whose
	// sending side has been closed.
	ErrPipeClosed = errors.New("fiber: pipe closed")

	// ErrInvalidStackSize is wrapped by StackError when a requested
	// stack size is not a positive multiple of the platform page size.
	ErrInvalidStackSize = errors.New("fiber: invalid stack size")
)

// StackError reports a failure to allocate a fiber stack. It is
// returned by Spawn synchronously, before any of the task has run.
type StackError struct {
	// Size is the requested usable stack size in bytes.
	Size int
	// Err is the underlying cause: ErrInvalidStackSize for a size the
	// platform cannot honor, or the allocation error otherwise.
	Err error
}

func (e *StackError) Error() string {
	return fmt.Sprintf("fiber: stack allocation of %d bytes failed: %v", e.Size, e.Err)
}

func (e *StackError) Unwrap() error {
	return e.Err
}
