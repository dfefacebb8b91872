package fiber

import (
	"errors"
	"iter"
)

// nextItem adapts one element of a stream into a future, so Wait can
// suspend on it.
type nextItem[T any] struct {
	s Stream[T]
}

func (f nextItem[T]) Poll(w Waker) (T, bool, error) {
	return f.s.PollNext(w)
}

// Iterate consumes s as a range-over-func sequence inside a fiber,
// suspending between elements as needed:
//
//	for v, err := range fiber.Iterate(aw, rx) {
//		if err != nil { ... }
//		use(v)
//	}
//
// The sequence ends when the stream reports ErrEndOfStream, which is
// not yielded. Element-level errors are yielded alongside a zero value
// and iteration continues; ErrDropped is yielded once and iteration
// ends, since the fiber cannot suspend again.
func Iterate[T any](aw *Await, s Stream[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := Wait(aw, nextItem[T]{s: s})
			if err != nil {
				if errors.Is(err, ErrEndOfStream) {
					return
				}
				var zero T
				if !yield(zero, err) || errors.Is(err, ErrDropped) {
					return
				}
				continue
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}
