package fiber

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPanicErrorMethods(t *testing.T) {
	r := require.New(t)

	errValue := fmt.Errorf("test error")
	pErr := &PanicError{
		value: errValue,
		stack: []byte("mock stack"),
	}

	r.Equal("test error", pErr.Error())
	r.Contains(pErr.ErrorWithStack(), "test error")
	r.Contains(pErr.ErrorWithStack(), "mock stack")
	r.Equal(errValue, pErr.Unwrap())
	r.Equal(errValue, pErr.Value())
}

func TestPanicErrorUnwrapNonError(t *testing.T) {
	r := require.New(t)

	pErr := &PanicError{
		value: "not an error",
		stack: []byte("mock stack"),
	}

	r.Nil(pErr.Unwrap())
	r.Equal("not an error", pErr.Error())
	r.Equal("not an error", pErr.Value())
}

func TestPanicErrorUnwrapChain(t *testing.T) {
	r := require.New(t)

	sentinel := errors.New("sentinel")
	pErr := newPanicError(fmt.Errorf("wrapped: %w", sentinel))

	r.True(errors.Is(pErr, sentinel))
	r.Contains(pErr.ErrorWithStack(), "wrapped: sentinel")
	// newPanicError captures the stack at the recovery site.
	r.Contains(pErr.ErrorWithStack(), "panic_test.go")
}
