package fiber

import "sync"

// OneshotSender is the producing half of a single-value channel.
// Sending and closing are non-blocking and callable from any goroutine.
type OneshotSender[T any] struct {
	cell *oneshotCell[T]
}

// OneshotReceiver is a future resolving with the value sent on the
// paired sender, or ErrLost if the sender is closed (or garbage) before
// sending.
type OneshotReceiver[T any] struct {
	cell *oneshotCell[T]
}

// NewOneshot creates a connected single-value channel pair.
func NewOneshot[T any]() (*OneshotSender[T], *OneshotReceiver[T]) {
	cell := &oneshotCell[T]{}
	return &OneshotSender[T]{cell: cell}, &OneshotReceiver[T]{cell: cell}
}

// Send delivers v to the receiver. Only the first send counts; sends
// after the first, or after Close, are ignored.
func (s *OneshotSender[T]) Send(v T) {
	s.cell.send(v)
}

// Close abandons the channel without sending. The receiver resolves
// with ErrLost.
func (s *OneshotSender[T]) Close() {
	s.cell.close()
}

// Poll implements Future[T].
func (r *OneshotReceiver[T]) Poll(w Waker) (T, bool, error) {
	v, resolved, lost := r.cell.poll(w)
	if !resolved {
		var zero T
		return zero, false, nil
	}
	if lost {
		var zero T
		return zero, true, ErrLost
	}
	return v, true, nil
}

// pipeState is the shared buffer behind a pipe pair. Senders park on
// sendWakers in arrival order when the buffer is full; the receiver
// parks on recvWaker when it is empty.
type pipeState[T any] struct {
	mu         sync.Mutex
	buf        []T
	cap        int
	closed     bool
	sendWakers []Waker
	recvWaker  Waker
}

// PipeSender is the producing half of a bounded multi-value channel.
type PipeSender[T any] struct {
	state *pipeState[T]
}

// PipeReceiver is the consuming half of a bounded multi-value channel.
// It implements Stream[T]: elements arrive in send order, and after the
// sender closes and the buffer drains, PollNext resolves with
// ErrEndOfStream.
type PipeReceiver[T any] struct {
	state *pipeState[T]
}

// NewPipe creates a connected bounded channel pair. Sends beyond
// capacity queued elements suspend until the receiver drains. Panics if
// capacity is not positive.
func NewPipe[T any](capacity int) (*PipeSender[T], *PipeReceiver[T]) {
	if capacity < 1 {
		panic("fiber: pipe capacity must be positive")
	}
	state := &pipeState[T]{cap: capacity}
	return &PipeSender[T]{state: state}, &PipeReceiver[T]{state: state}
}

// pipeSend is one in-flight send. Its buffer slot is claimed on the
// poll that finds room, so element order follows poll order, which the
// reactor keeps FIFO per waker.
type pipeSend[T any] struct {
	state *pipeState[T]
	v     T
	sent  bool
}

// Send returns a future that resolves once v is accepted into the
// pipe's buffer, or with ErrPipeClosed if the pipe was closed first.
func (s *PipeSender[T]) Send(v T) Future[struct{}] {
	return &pipeSend[T]{state: s.state, v: v}
}

// Close marks the pipe finished. Buffered elements remain readable;
// after they drain the receiver sees ErrEndOfStream. Pending and later
// sends fail with ErrPipeClosed.
func (s *PipeSender[T]) Close() {
	st := s.state
	st.mu.Lock()
	st.closed = true
	recv := st.recvWaker
	st.recvWaker = nil
	senders := st.sendWakers
	st.sendWakers = nil
	st.mu.Unlock()
	if recv != nil {
		recv.Wake()
	}
	for _, w := range senders {
		w.Wake()
	}
}

func (f *pipeSend[T]) Poll(w Waker) (struct{}, bool, error) {
	if f.sent {
		return struct{}{}, true, nil
	}
	st := f.state
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return struct{}{}, true, ErrPipeClosed
	}
	if len(st.buf) < st.cap {
		st.buf = append(st.buf, f.v)
		f.sent = true
		recv := st.recvWaker
		st.recvWaker = nil
		st.mu.Unlock()
		if recv != nil {
			recv.Wake()
		}
		return struct{}{}, true, nil
	}
	st.sendWakers = append(st.sendWakers, w)
	st.mu.Unlock()
	return struct{}{}, false, nil
}

// PollNext implements Stream[T].
func (r *PipeReceiver[T]) PollNext(w Waker) (T, bool, error) {
	st := r.state
	st.mu.Lock()
	if len(st.buf) > 0 {
		v := st.buf[0]
		st.buf[0] = *new(T)
		st.buf = st.buf[1:]
		var sender Waker
		if len(st.sendWakers) > 0 {
			sender = st.sendWakers[0]
			st.sendWakers = st.sendWakers[1:]
		}
		st.mu.Unlock()
		if sender != nil {
			sender.Wake()
		}
		return v, true, nil
	}
	if st.closed {
		st.mu.Unlock()
		var zero T
		return zero, true, ErrEndOfStream
	}
	st.recvWaker = w
	st.mu.Unlock()
	var zero T
	return zero, false, nil
}

// Producer pushes values into a pipe from inside a fiber, suspending on
// backpressure. It binds the fiber's Await once so the production loop
// reads as plain calls.
type Producer[T any] struct {
	aw *Await
	tx *PipeSender[T]
}

// NewProducer binds tx to the calling fiber for backpressured sends.
func NewProducer[T any](aw *Await, tx *PipeSender[T]) *Producer[T] {
	return &Producer[T]{aw: aw, tx: tx}
}

// Produce sends v, suspending the fiber until the pipe accepts it.
// Returns ErrPipeClosed if the pipe closed, or ErrDropped if the core
// shut down while suspended.
func (p *Producer[T]) Produce(v T) error {
	_, err := Wait(p.aw, p.tx.Send(v))
	return err
}
