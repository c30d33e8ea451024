package circalloc

// Backing is the abstract byte-allocator capability a RingBuffer draws
// chunk storage from. spec.md §9 describes it as "a capability
// {alloc(n) → bytes | fail, free(bytes)}"; implementations plug in whatever
// the host environment's ecosystem provides.
type Backing interface {
	// Alloc returns a freshly allocated buffer of exactly n bytes, or an
	// error if the request cannot be satisfied.
	Alloc(n int) ([]byte, error)
	// Free releases a buffer previously returned by Alloc. Implementations
	// must tolerate being called during teardown only, never concurrently
	// with Alloc on the same buffer.
	Free(buf []byte)
}

// HeapBacking draws chunk storage from the Go heap. It is the default
// backing allocator, grounded in the teacher's own Arena.grow, which simply
// calls make([]byte, size) for every new chunk.
type HeapBacking struct{}

// Alloc returns a zeroed n-byte slice from the Go heap.
func (HeapBacking) Alloc(n int) ([]byte, error) {
	return make([]byte, n), nil
}

// Free is a no-op; the Go garbage collector reclaims the buffer once it is
// no longer reachable.
func (HeapBacking) Free([]byte) {}
