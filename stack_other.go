//go:build !unix

package fiber

// reserveStack reserves a heap-backed region on platforms without mmap
// guard pages. The lifecycle semantics are identical; only the faulting
// guard is absent.
func reserveStack(total int) ([]byte, error) {
	return make([]byte, total), nil
}

func releaseStack([]byte) {}
