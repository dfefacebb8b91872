//go:build unix

package fiber

import (
	"os"

	"golang.org/x/sys/unix"
)

// reserveStack maps an anonymous region of total bytes and turns its
// lowest page into a guard page, so a stack overflowing downward faults
// instead of corrupting adjacent memory.
func reserveStack(total int) ([]byte, error) {
	mem, err := unix.Mmap(-1, 0, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	if err := unix.Mprotect(mem[:os.Getpagesize()], unix.PROT_NONE); err != nil {
		_ = unix.Munmap(mem)
		return nil, err
	}
	return mem, nil
}

func releaseStack(mem []byte) {
	_ = unix.Munmap(mem)
}
