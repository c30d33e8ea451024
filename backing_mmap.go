//go:build linux || darwin

package circalloc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapBacking draws chunk storage from anonymous mmap regions instead of
// the Go heap, so large long-lived chunks don't sit in GC-scanned memory.
// Grounded in the Go runtime's own large-object strategy
// (_examples/cloudfly-readgo/runtime/malloc.go: "allocate a new group of
// pages... from the operating system"), using the ecosystem's standard
// handle for that, golang.org/x/sys/unix, rather than cgo or a hand-rolled
// syscall wrapper.
type MmapBacking struct{}

// Alloc maps n bytes of anonymous, read-write memory. n is rounded up to
// nothing smaller than a single page by the kernel; callers needing exact
// sizing should track len() on the returned slice, not cap().
func (MmapBacking) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		n = 1
	}
	buf, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("circalloc: mmap %d bytes: %w", n, err)
	}
	return buf, nil
}

// Free unmaps a buffer previously returned by Alloc.
func (MmapBacking) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	_ = unix.Munmap(buf)
}
