package fiber

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocStackRejectsInvalidSizes(t *testing.T) {
	r := require.New(t)

	for _, size := range []int{-1, 0, 1, os.Getpagesize() + 1} {
		s, err := allocStack(size)
		r.Nil(s)
		r.ErrorIs(err, ErrInvalidStackSize)

		var stackErr *StackError
		r.True(errors.As(err, &stackErr))
		r.Equal(size, stackErr.Size)
	}
}

func TestAllocStackSizeAndFree(t *testing.T) {
	r := require.New(t)

	page := os.Getpagesize()
	s, err := allocStack(page)
	r.NoError(err)
	r.Equal(page, s.Size())

	s.free()
	r.PanicsWithValue("fiber: double free of fiber stack", func() {
		s.free()
	})
}

func TestSpawnRejectsInvalidStackSize(t *testing.T) {
	r := require.New(t)

	core, err := NewCore()
	r.NoError(err)

	join, err := Spawn(New(core.Handle()).StackSize(3), func(aw *Await) int {
		t.Error("task should not run")
		return 0
	})
	r.Nil(join)

	var stackErr *StackError
	r.True(errors.As(err, &stackErr))
	r.Equal(3, stackErr.Size)
	r.ErrorIs(err, ErrInvalidStackSize)
}
