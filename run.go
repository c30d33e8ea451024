package circalloc

// chunkRun is a view over a contiguous span [base, base+activeCount) of the
// shared chunk vector, treated as one growing live region. Its head is the
// leftmost live chunk, its tail the rightmost live chunk; only the tail ever
// receives a bump allocation. A run never owns the chunks it views — it only
// tracks which contiguous slice of the vector currently belongs to it.
type chunkRun struct {
	base        int
	activeCount int
}

func newChunkRun(base int) *chunkRun {
	return &chunkRun{base: base, activeCount: 1}
}

func (r *chunkRun) head() int { return r.base }
func (r *chunkRun) tail() int { return r.base + r.activeCount - 1 }

// contains reports whether chunk index idx falls within the run's view.
func (r *chunkRun) contains(idx int) bool {
	return r != nil && idx >= r.base && idx <= r.tail()
}

// setHead moves the run's head to newBase, keeping its tail fixed.
func (r *chunkRun) setHead(newBase int) {
	t := r.tail()
	r.base = newBase
	r.activeCount = t - newBase + 1
}

// setTail moves the run's tail to newTail, keeping its head fixed.
func (r *chunkRun) setTail(newTail int) {
	r.activeCount = newTail - r.base + 1
}

// extendTo grows the run's view to include newTail as its new tail, without
// touching its head. Used after appending a fresh chunk to the vector.
func (r *chunkRun) extendTo(newTail int) {
	r.setTail(newTail)
}

// isEmpty reports whether the run currently holds no live bytes: its head
// and tail coincide and that single chunk is empty.
func (r *chunkRun) isEmpty(chunks []chunk) bool {
	return r.head() == r.tail() && chunks[r.tail()].isEmpty()
}

// alloc attempts to bump-allocate n bytes from the run's tail chunk. It
// never extends the run itself; the caller decides whether to grow the
// chunk vector and extend the view when this returns false.
func (r *chunkRun) alloc(chunks []chunk, n int) ([]byte, int, bool) {
	ti := r.tail()
	data, ok := chunks[ti].alloc(n)
	if !ok {
		return nil, 0, false
	}
	return data, ti, true
}

// freeLeft applies chunk.freeLeft at chunkIdx (which must lie within the
// run), clears every chunk strictly to its left within the run, and
// advances the run's head past them.
func (r *chunkRun) freeLeft(chunks []chunk, chunkIdx, firstKept int) {
	chunks[chunkIdx].freeLeft(firstKept)
	for i := r.base; i < chunkIdx; i++ {
		chunks[i].clear()
	}
	newHead := chunkIdx
	if chunks[chunkIdx].isEmpty() && chunkIdx < r.tail() {
		newHead = chunkIdx + 1
	}
	r.setHead(newHead)
}

// freeRight applies chunk.freeRight at chunkIdx (which must lie within the
// run), clears every chunk strictly to its right within the run, and
// retreats the run's tail past them.
func (r *chunkRun) freeRight(chunks []chunk, chunkIdx, firstRemoved int) {
	chunks[chunkIdx].freeRight(firstRemoved)
	for i := chunkIdx + 1; i <= r.tail(); i++ {
		chunks[i].clear()
	}
	newTail := chunkIdx
	if chunks[chunkIdx].isEmpty() && chunkIdx > r.base {
		newTail = chunkIdx - 1
	}
	r.setTail(newTail)
}

// clearAll empties every chunk in the run's view without altering the view
// itself. Used when a whole run is being discarded because it is known to
// hold only data older than some other freed point.
func (r *chunkRun) clearAll(chunks []chunk) {
	if r == nil {
		return
	}
	for i := r.base; i <= r.tail(); i++ {
		chunks[i].clear()
	}
}
