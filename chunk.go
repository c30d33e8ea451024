package circalloc

// chunk is a single contiguous backing buffer with a monotone, left-to-right
// live sub-range [start, start+len). Allocation always bumps the right edge;
// freeing only ever moves start rightward (freeLeft) or start+len leftward
// (freeRight). No hole is ever represented inside a chunk.
type chunk struct {
	data  []byte
	start int
	len   int
}

func newChunk(buf []byte) chunk {
	return chunk{data: buf}
}

// cap is the total backing capacity of the chunk, live or not.
func (c *chunk) cap() int { return len(c.data) }

// free is the number of bytes left before the chunk's right edge.
func (c *chunk) free() int { return len(c.data) - c.start - c.len }

// alloc bump-allocates n bytes from the chunk's live tail. It never resets
// the bump pointer and never reuses interior space.
func (c *chunk) alloc(n int) ([]byte, bool) {
	end := c.start + c.len
	if end+n > len(c.data) {
		return nil, false
	}
	c.len += n
	return c.data[end : end+n : end+n], true
}

// freeLeft advances the chunk's left edge to firstKept, an offset into data.
// It normalizes to (0,0) when the chunk becomes empty.
func (c *chunk) freeLeft(firstKept int) {
	newEnd := c.start + c.len
	c.start = firstKept
	c.len = newEnd - firstKept
	c.normalize()
}

// freeRight truncates the chunk so that start+len == firstRemoved, an
// offset into data. It normalizes to (0,0) when the chunk becomes empty.
func (c *chunk) freeRight(firstRemoved int) {
	c.len = firstRemoved - c.start
	c.normalize()
}

// clear empties the chunk outright, discarding its live range.
func (c *chunk) clear() {
	c.start = 0
	c.len = 0
}

func (c *chunk) normalize() {
	if c.len == 0 {
		c.start = 0
	}
}

func (c *chunk) isEmpty() bool { return c.len == 0 }

// end is the offset one past the chunk's live range; the next bump
// allocation, if any, starts here.
func (c *chunk) end() int { return c.start + c.len }
