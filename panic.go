package fiber

import (
	"fmt"
	"runtime/debug"
)

// PanicError is the failure a JoinHandle reports when its fiber's task
// panicked. The panic is caught at the fiber's entry trampoline, so it
// terminates only that fiber; the payload and the stack at the point of
// the panic are preserved here.
type PanicError struct {
	value any
	stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("%v", p.value)
}

// Value returns the original panic payload.
func (p *PanicError) Value() any {
	return p.value
}

// ErrorWithStack returns the panic message followed by the stack trace
// captured when the panic was recovered.
func (p *PanicError) ErrorWithStack() string {
	return fmt.Sprintf("%v\n\n%s", p.value, p.stack)
}

func (p *PanicError) Unwrap() error {
	err, ok := p.value.(error)
	if !ok {
		return nil
	}
	return err
}

func newPanicError(v any) *PanicError {
	return &PanicError{
		value: v,
		stack: debug.Stack(),
	}
}
