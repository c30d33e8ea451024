package circalloc

// maxChunks bounds the chunk vector so that a chunk index fits in the
// single byte each payload trailer reserves for it (spec.md §6).
const maxChunks = 64

// DefaultInitialChunkSize seeds the very first chunk's growth formula when
// no explicit seed is configured (see WithInitialChunkSize).
const DefaultInitialChunkSize = 4096

// ringBuffer composes up to three chunkRuns — left, right, overflow — over
// a single append-only chunk vector to emulate a circular live region with
// wraparound and an escape valve (overflow) for when wraparound would be
// ambiguous. See spec.md §4.3 for the policy this implements.
type ringBuffer struct {
	backing Backing

	chunks []chunk

	left     *chunkRun
	right    *chunkRun
	overflow *chunkRun

	lastSize int
}

func newRingBuffer(backing Backing, initialSeed int) *ringBuffer {
	if initialSeed <= 0 {
		initialSeed = DefaultInitialChunkSize
	}
	return &ringBuffer{
		backing:  backing,
		chunks:   make([]chunk, 0, maxChunks),
		lastSize: initialSeed,
	}
}

// growChunk appends one new chunk sized max(lastSize, n)*2 and returns its
// index. This single formula covers both the bootstrap chunk (lastSize
// starts at the configured initial seed) and every later growth step.
func (rb *ringBuffer) growChunk(n int) (int, error) {
	if len(rb.chunks) >= maxChunks {
		return 0, ErrChunkLimitReached
	}
	size := rb.lastSize
	if n > size {
		size = n
	}
	size *= 2

	buf, err := rb.backing.Alloc(size)
	if err != nil {
		return 0, ErrOutOfMemory
	}
	rb.chunks = append(rb.chunks, newChunk(buf))
	rb.lastSize = size
	return len(rb.chunks) - 1, nil
}

// alloc is the allocation policy of spec.md §4.3: bootstrap, then overflow,
// then left, then (on refusal) a fresh overflow.
func (rb *ringBuffer) alloc(n int) ([]byte, int, error) {
	if rb.left == nil {
		return rb.bootstrap(n)
	}
	if rb.overflow != nil {
		return rb.allocOverflow(n)
	}
	if data, idx, ok := rb.left.alloc(rb.chunks, n); ok {
		return data, idx, nil
	}
	return rb.allocNewOverflow(n)
}

func (rb *ringBuffer) bootstrap(n int) ([]byte, int, error) {
	idx, err := rb.growChunk(n)
	if err != nil {
		return nil, 0, err
	}
	rb.left = newChunkRun(idx)
	data, ok := rb.chunks[idx].alloc(n)
	if !ok {
		return nil, 0, ErrOutOfMemory
	}
	return data, idx, nil
}

func (rb *ringBuffer) allocOverflow(n int) ([]byte, int, error) {
	if data, idx, ok := rb.overflow.alloc(rb.chunks, n); ok {
		return data, idx, nil
	}
	idx, err := rb.growChunk(n)
	if err != nil {
		return nil, 0, err
	}
	rb.overflow.extendTo(idx)
	data, idx, ok := rb.overflow.alloc(rb.chunks, n)
	if !ok {
		return nil, 0, ErrOutOfMemory
	}
	return data, idx, nil
}

func (rb *ringBuffer) allocNewOverflow(n int) ([]byte, int, error) {
	idx, err := rb.growChunk(n)
	if err != nil {
		return nil, 0, err
	}
	rb.overflow = newChunkRun(idx)
	data, idx, ok := rb.overflow.alloc(rb.chunks, n)
	if !ok {
		return nil, 0, ErrOutOfMemory
	}
	return data, idx, nil
}

// adjacentRun returns whichever of left/right currently ends exactly at
// idx-1, or nil if neither does. A freshly grown chunk (overflow's base, or
// a run's vacated edge) is always adjacent to at most one of the other two
// runs, by construction of how the vector grows; this resolves which run
// should absorb reclaimed capacity (see DESIGN.md Open Question 2).
func (rb *ringBuffer) adjacentRun(idx int) *chunkRun {
	if rb.left != nil && rb.left.tail()+1 == idx {
		return rb.left
	}
	if rb.right != nil && rb.right.tail()+1 == idx {
		return rb.right
	}
	return nil
}

// freeLeft frees everything allocated no later than the allocation that
// produced the chunk/firstKept pair (spec.md §4.3, "free_left policy").
func (rb *ringBuffer) freeLeft(chunkIdx, firstKept int) {
	switch {
	case rb.overflow.contains(chunkIdx):
		rb.freeLeftInOverflow(chunkIdx, firstKept)
	case rb.right != nil && rb.left.contains(chunkIdx):
		rb.freeLeftInLeftWithRight(chunkIdx, firstKept)
	case rb.right.contains(chunkIdx):
		rb.freeLeftInRight(chunkIdx, firstKept)
	default:
		rb.freeLeftInLeftOnly(chunkIdx, firstKept)
	}
}

func (rb *ringBuffer) freeLeftInOverflow(chunkIdx, firstKept int) {
	rb.left.clearAll(rb.chunks)
	if rb.right != nil {
		rb.right.clearAll(rb.chunks)
		rb.right = nil
	}
	rb.overflow.freeLeft(rb.chunks, chunkIdx, firstKept)

	if rb.overflow.isEmpty(rb.chunks) {
		rb.left = &chunkRun{base: 0, activeCount: len(rb.chunks)}
		rb.overflow = nil
		return
	}

	newHead := rb.overflow.head()
	rb.left = &chunkRun{base: 0, activeCount: newHead}
	rb.right = &chunkRun{base: newHead, activeCount: len(rb.chunks) - newHead}
	rb.overflow = nil
}

func (rb *ringBuffer) freeLeftInLeftWithRight(chunkIdx, firstKept int) {
	rb.right.clearAll(rb.chunks)
	vecEnd := len(rb.chunks) - 1
	rb.left.freeLeft(rb.chunks, chunkIdx, firstKept)

	newHead := rb.left.head()
	if newHead == 0 {
		rb.right = nil
		rb.left.base = 0
		rb.left.activeCount = vecEnd + 1
		return
	}
	rb.right = &chunkRun{base: 0, activeCount: newHead}
	rb.left.base = newHead
	rb.left.activeCount = vecEnd - newHead + 1
}

func (rb *ringBuffer) freeLeftInRight(chunkIdx, firstKept int) {
	oldHead := rb.right.head()
	rb.right.freeLeft(rb.chunks, chunkIdx, firstKept)

	if rb.right.isEmpty(rb.chunks) {
		if rb.left.tail()+1 == oldHead {
			rb.left.setTail(rb.right.tail())
		}
		rb.right = nil
		return
	}
	if rb.left.tail()+1 == oldHead {
		rb.left.setTail(rb.right.head() - 1)
	}
}

func (rb *ringBuffer) freeLeftInLeftOnly(chunkIdx, firstKept int) {
	rb.left.freeLeft(rb.chunks, chunkIdx, firstKept)

	newHead := rb.left.head()
	if newHead == 0 {
		return
	}
	tail := rb.left.tail()
	rb.right = &chunkRun{base: 0, activeCount: newHead}
	rb.left.base = newHead
	rb.left.activeCount = tail - newHead + 1
}

// freeRight frees everything allocated no earlier than the allocation that
// produced the chunk/firstRemoved pair (spec.md §4.3, "free_right policy").
func (rb *ringBuffer) freeRight(chunkIdx, firstRemoved int) {
	switch {
	case rb.overflow.contains(chunkIdx):
		rb.freeRightInOverflow(chunkIdx, firstRemoved)
	case rb.right.contains(chunkIdx):
		rb.freeRightInRight(chunkIdx, firstRemoved)
	case rb.right != nil && rb.left.contains(chunkIdx):
		rb.freeRightInLeftWithRight(chunkIdx, firstRemoved)
	default:
		rb.freeRightInLeftOnly(chunkIdx, firstRemoved)
	}
}

func (rb *ringBuffer) freeRightInOverflow(chunkIdx, firstRemoved int) {
	base := rb.overflow.head()
	rb.overflow.freeRight(rb.chunks, chunkIdx, firstRemoved)
	if !rb.overflow.isEmpty(rb.chunks) {
		return
	}
	tail := rb.overflow.tail()
	if absorb := rb.adjacentRun(base); absorb != nil {
		absorb.setTail(tail)
	}
	rb.overflow = nil
}

func (rb *ringBuffer) freeRightInRight(chunkIdx, firstRemoved int) {
	if rb.overflow != nil {
		rb.overflow.clearAll(rb.chunks)
		rb.overflow = nil
	}
	rb.left.clearAll(rb.chunks)
	rb.right.freeRight(rb.chunks, chunkIdx, firstRemoved)

	// Left held strictly newer data than right and is now fully cleared;
	// flatten back to a single linear run rooted at right's extent.
	rb.left = rb.right
	rb.right = nil
}

func (rb *ringBuffer) freeRightInLeftWithRight(chunkIdx, firstRemoved int) {
	rb.left.freeRight(rb.chunks, chunkIdx, firstRemoved)
	if !rb.left.isEmpty(rb.chunks) {
		return
	}
	if rb.right.tail()+1 == rb.left.head() {
		rb.right.setTail(rb.left.tail())
	}
	rb.left = rb.right
	rb.right = nil
}

func (rb *ringBuffer) freeRightInLeftOnly(chunkIdx, firstRemoved int) {
	rb.left.freeRight(rb.chunks, chunkIdx, firstRemoved)
}

// count sums live bytes across every chunk. Chunks not currently owned by
// any run are always fully cleared (len 0), so summing the whole vector is
// equivalent to summing only the live runs.
func (rb *ringBuffer) count() int {
	sum := 0
	for i := range rb.chunks {
		sum += rb.chunks[i].len
	}
	return sum
}

func (rb *ringBuffer) numChunks() int { return len(rb.chunks) }

func (rb *ringBuffer) capacity() int {
	sum := 0
	for i := range rb.chunks {
		sum += rb.chunks[i].cap()
	}
	return sum
}

func (rb *ringBuffer) release() {
	for i := range rb.chunks {
		rb.backing.Free(rb.chunks[i].data)
	}
	rb.chunks = nil
	rb.left, rb.right, rb.overflow = nil, nil, nil
}
