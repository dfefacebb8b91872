package fiber

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-eventloop"
	"github.com/joeycumines/logiface"
)

// Core owns a scheduler and the event loop that drives it. All fibers
// spawned through a core's handles execute interleaved on the loop's
// single goroutine; the core itself may be created and seeded with
// fibers on any goroutine before the first Drive call starts the loop.
type Core struct {
	loop   *eventloop.Loop
	sched  *scheduler
	logger *logiface.Logger[logiface.Event]

	mu      sync.Mutex
	pending map[*waitTask]struct{}
	closed  bool

	runOnce sync.Once
}

// CoreOption configures a Core.
type CoreOption func(*Core)

// WithLogger routes the core's diagnostics through l. A nil logger (the
// default) disables logging.
func WithLogger(l *logiface.Logger[logiface.Event]) CoreOption {
	return func(c *Core) {
		c.logger = l
	}
}

// NewCore creates a core with an idle event loop. The loop does not run
// until Drive is called.
func NewCore(opts ...CoreOption) (*Core, error) {
	loop, err := eventloop.New()
	if err != nil {
		return nil, err
	}
	c := &Core{
		loop:    loop,
		sched:   &scheduler{},
		pending: make(map[*waitTask]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Handle is a cheap, copyable capability for spawning fibers and
// creating timers on a core. All handles of one core are equivalent.
type Handle struct {
	core *Core
}

// Handle returns a spawn capability for the core.
func (c *Core) Handle() Handle {
	return Handle{core: c}
}

func (c *Core) start() {
	c.runOnce.Do(func() {
		go c.loop.Run(context.Background())
	})
}

// registerWait adopts a suspended fiber's poll step. On a closed core
// the fiber is resumed immediately for teardown instead; otherwise the
// task is tracked for Shutdown and given its initial wake.
func (c *Core) registerWait(t *waitTask) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		t.done = true
		c.sched.runChild(t.ctx, cleanupFiber{})
		return
	}
	c.pending[t] = struct{}{}
	c.mu.Unlock()
	t.Wake()
}

func (c *Core) unregister(t *waitTask) {
	c.mu.Lock()
	delete(c.pending, t)
	c.mu.Unlock()
}

// Shutdown stops the event loop, then resumes every suspended fiber
// exactly once for teardown; their pending Wait calls return ErrDropped
// and the fibers unwind normally, releasing their stacks. Fibers
// suspending after Shutdown are torn down on registration. Returns the
// loop's shutdown error if the context expires first, in which case no
// teardown is performed.
func (c *Core) Shutdown(ctx context.Context) error {
	err := c.loop.Shutdown(ctx)
	if err != nil && !errors.Is(err, eventloop.ErrLoopTerminated) {
		return err
	}

	c.mu.Lock()
	c.closed = true
	tasks := make([]*waitTask, 0, len(c.pending))
	for t := range c.pending {
		tasks = append(tasks, t)
	}
	clear(c.pending)
	c.mu.Unlock()

	if c.logger.Debug().Enabled() {
		c.logger.Debug().
			Int("suspended", len(tasks)).
			Log("tearing down suspended fibers")
	}
	for _, t := range tasks {
		if t.done {
			continue
		}
		t.done = true
		c.sched.runChild(t.ctx, cleanupFiber{})
	}
	return nil
}

// waitTask is one suspended fiber's registration with the reactor: the
// poll step produced by Wait and the context to resume once it reports
// completion. Wake may arrive from any goroutine; polling and resuming
// happen on the loop goroutine only.
type waitTask struct {
	core  *Core
	ctx   *execContext
	step  func(Waker) bool
	woken atomic.Bool
	done  bool
}

// Wake schedules a poll on the loop. Duplicate wakes between polls
// collapse into one.
func (t *waitTask) Wake() {
	if !t.woken.CompareAndSwap(false, true) {
		return
	}
	// A submit failure means the loop is shutting down; Shutdown's
	// teardown pass covers this task.
	_ = t.core.loop.Submit(t.poll)
}

func (t *waitTask) poll() {
	if t.done {
		return
	}
	t.woken.Store(false)
	if !t.step(t) {
		return
	}
	t.done = true
	t.core.unregister(t)
	t.core.sched.runChild(t.ctx, resumeFiber{})
}

// driver adapts a Future into something an external goroutine can block
// on. It is the root of each Drive call: polls run on the loop, the
// caller parks on done.
type driver[T any] struct {
	core     *Core
	fut      Future[T]
	done     chan struct{}
	once     sync.Once
	woken    atomic.Bool
	resolved bool
	v        T
	err      error
}

func (d *driver[T]) Wake() {
	if !d.woken.CompareAndSwap(false, true) {
		return
	}
	if err := d.core.loop.Submit(d.poll); err != nil {
		d.once.Do(func() {
			d.err = ErrDropped
			close(d.done)
		})
	}
}

func (d *driver[T]) poll() {
	if d.resolved {
		return
	}
	d.woken.Store(false)
	v, ok, err := d.fut.Poll(d)
	if !ok {
		return
	}
	d.resolved = true
	d.once.Do(func() {
		d.v = v
		d.err = err
		close(d.done)
	})
}

// Drive starts the core's event loop if needed, then blocks the calling
// goroutine until fut resolves and returns its result. It is the bridge
// between ordinary blocking code and the fiber world; typical use is
// driving a root fiber's JoinHandle. Driving on a core that shuts down
// before fut resolves returns ErrDropped.
func Drive[T any](c *Core, fut Future[T]) (T, error) {
	c.start()
	d := &driver[T]{
		core: c,
		fut:  fut,
		done: make(chan struct{}),
	}
	d.Wake()
	<-d.done
	return d.v, d.err
}

// Timer is a future that resolves with the wall-clock time of its
// expiry, d after its first poll. Create timers through Handle.Timer
// and await them with Wait.
type Timer struct {
	h         Handle
	d         time.Duration
	scheduled bool
	fired     bool
	at        time.Time
	waker     Waker
}

// Timer returns a timer that expires d after it is first polled.
func (h Handle) Timer(d time.Duration) *Timer {
	return &Timer{h: h, d: d}
}

// Poll implements Future[time.Time]. The countdown starts on the first
// poll, not at construction.
func (t *Timer) Poll(w Waker) (time.Time, bool, error) {
	if t.fired {
		return t.at, true, nil
	}
	t.waker = w
	if !t.scheduled {
		t.scheduled = true
		_, err := t.h.core.loop.ScheduleTimer(t.d, func() {
			t.fired = true
			t.at = time.Now()
			if t.waker != nil {
				t.waker.Wake()
			}
		})
		if err != nil {
			return time.Time{}, true, err
		}
	}
	return time.Time{}, false, nil
}
