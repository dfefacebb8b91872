package fiber

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipeBackpressuredProducer(t *testing.T) {
	r := require.New(t)
	core := newTestCore(t)

	tx, rx := NewPipe[int](1)

	var produced []int
	_, err := Spawn(New(core.Handle()), func(aw *Await) error {
		p := NewProducer(aw, tx)
		for _, v := range []int{42, 12} {
			if err := p.Produce(v); err != nil {
				return err
			}
			produced = append(produced, v)
		}
		tx.Close()
		return nil
	})
	r.NoError(err)
	// The producer suspended on its first send before anything drove the
	// loop.
	r.Empty(produced)

	consumer, err := Spawn(New(core.Handle()), func(aw *Await) []int {
		var got []int
		for v, err := range Iterate(aw, rx) {
			r.NoError(err)
			got = append(got, v)
		}
		return got
	})
	r.NoError(err)

	got, err := Drive(core, consumer)
	r.NoError(err)
	r.Equal([]int{42, 12}, got)
	r.Equal([]int{42, 12}, produced)
}

func TestPipeCapacityMustBePositive(t *testing.T) {
	require.PanicsWithValue(t, "fiber: pipe capacity must be positive", func() {
		NewPipe[int](0)
	})
}

func TestPipeSendAfterCloseFails(t *testing.T) {
	r := require.New(t)

	tx, rx := NewPipe[int](1)
	tx.Close()

	_, resolved, err := tx.Send(1).Poll(noopWaker{})
	r.True(resolved)
	r.ErrorIs(err, ErrPipeClosed)

	_, done, err := rx.PollNext(noopWaker{})
	r.True(done)
	r.ErrorIs(err, ErrEndOfStream)
}

func TestPipeDrainsBufferAfterClose(t *testing.T) {
	r := require.New(t)

	tx, rx := NewPipe[int](2)

	for _, v := range []int{1, 2} {
		_, resolved, err := tx.Send(v).Poll(noopWaker{})
		r.True(resolved)
		r.NoError(err)
	}
	tx.Close()

	for _, want := range []int{1, 2} {
		v, resolved, err := rx.PollNext(noopWaker{})
		r.True(resolved)
		r.NoError(err)
		r.Equal(want, v)
	}

	_, resolved, err := rx.PollNext(noopWaker{})
	r.True(resolved)
	r.ErrorIs(err, ErrEndOfStream)
}

func TestOneshotCloseReportsLost(t *testing.T) {
	r := require.New(t)

	tx, rx := NewOneshot[int]()

	_, resolved, _ := rx.Poll(noopWaker{})
	r.False(resolved)

	tx.Close()
	_, resolved, err := rx.Poll(noopWaker{})
	r.True(resolved)
	r.ErrorIs(err, ErrLost)

	// A send after close stays ignored.
	tx.Send(5)
	_, resolved, err = rx.Poll(noopWaker{})
	r.True(resolved)
	r.ErrorIs(err, ErrLost)
}

func TestOneshotFirstSendWins(t *testing.T) {
	r := require.New(t)

	tx, rx := NewOneshot[int]()
	tx.Send(1)
	tx.Send(2)
	tx.Close()

	v, resolved, err := rx.Poll(noopWaker{})
	r.True(resolved)
	r.NoError(err)
	r.Equal(1, v)
}

// faultyStream resolves with a sequence of element results, then ends.
type faultyStream struct {
	steps []error
	vals  []int
}

func (s *faultyStream) PollNext(Waker) (int, bool, error) {
	if len(s.steps) == 0 {
		return 0, true, ErrEndOfStream
	}
	err := s.steps[0]
	s.steps = s.steps[1:]
	if err != nil {
		return 0, true, err
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	return v, true, nil
}

func TestIterateContinuesPastElementErrors(t *testing.T) {
	r := require.New(t)
	core := newTestCore(t)

	boom := errors.New("boom")
	stream := &faultyStream{
		steps: []error{nil, boom, nil},
		vals:  []int{1, 2},
	}

	join, err := Spawn(New(core.Handle()), func(aw *Await) []int {
		var got []int
		var errs []error
		for v, err := range Iterate(aw, stream) {
			if err != nil {
				errs = append(errs, err)
				continue
			}
			got = append(got, v)
		}
		r.Equal([]error{boom}, errs)
		return got
	})
	r.NoError(err)

	got, err := Drive(core, join)
	r.NoError(err)
	r.Equal([]int{1, 2}, got)
}

func TestIterateStopsWhenConsumerBreaks(t *testing.T) {
	r := require.New(t)
	core := newTestCore(t)

	tx, rx := NewPipe[int](4)
	for _, v := range []int{1, 2, 3} {
		_, resolved, err := tx.Send(v).Poll(noopWaker{})
		r.True(resolved)
		r.NoError(err)
	}

	join, err := Spawn(New(core.Handle()), func(aw *Await) int {
		for v := range Iterate(aw, rx) {
			return v
		}
		return -1
	})
	r.NoError(err)

	v, err := Drive(core, join)
	r.NoError(err)
	r.Equal(1, v)
}
