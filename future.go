package fiber

import "sync"

// Waker is the wakeup registration half of the poll contract. A future
// that reports pending must arrange for Wake to be called when progress
// becomes possible; the engine responds by polling the future again.
// Wake is safe to call from any goroutine and is idempotent between
// polls.
type Waker interface {
	Wake()
}

// Future is the tri-state poll contract accepted by Wait and Drive:
//
//	v, true, nil    resolved with v
//	_, true, err    resolved with a failure
//	_, false, nil   pending; w registered for wakeup
//
// Poll is only invoked by the engine, sequentially, and never again
// after it reports resolution.
type Future[T any] interface {
	Poll(w Waker) (T, bool, error)
}

// Stream is the poll contract for a lazy sequence: PollNext resolves
// with successive elements and finally with ErrEndOfStream. A consumed
// stream is not restartable.
type Stream[T any] interface {
	PollNext(w Waker) (T, bool, error)
}

type readyFuture[T any] struct {
	v T
}

// Ready returns a future that is already resolved with v. Waiting on it
// still suspends the calling fiber for one round trip through the
// reactor, which is how YieldNow is built.
func Ready[T any](v T) Future[T] {
	return readyFuture[T]{v: v}
}

func (f readyFuture[T]) Poll(Waker) (T, bool, error) {
	return f.v, true, nil
}

// oneshotCell is a single-producer single-consumer, non-blocking result
// slot with waker support. It backs both the public oneshot channel and
// the JoinHandle result channel. Sending is fire-and-forget: a missing
// or departed consumer is not an error.
type oneshotCell[T any] struct {
	mu     sync.Mutex
	v      T
	sent   bool
	closed bool
	waker  Waker
}

func (c *oneshotCell[T]) send(v T) {
	c.mu.Lock()
	if c.sent || c.closed {
		c.mu.Unlock()
		return
	}
	c.v = v
	c.sent = true
	w := c.waker
	c.waker = nil
	c.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

// close marks the cell abandoned. A consumer polling a closed, unsent
// cell observes the lost state.
func (c *oneshotCell[T]) close() {
	c.mu.Lock()
	if c.sent || c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	w := c.waker
	c.waker = nil
	c.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}

// poll reports (value, resolved, lost).
func (c *oneshotCell[T]) poll(w Waker) (T, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sent {
		return c.v, true, false
	}
	var zero T
	if c.closed {
		return zero, true, true
	}
	c.waker = w
	return zero, false, false
}
