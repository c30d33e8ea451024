package circalloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestAllocBasic(t *testing.T) {
	a := Init(HeapBacking{})
	defer a.Deinit()

	p, err := a.Alloc(10, 1)
	require.NoError(t, err)
	require.Len(t, p, 10)

	// Writable, and reads back what was written.
	for i := range p {
		p[i] = byte(i)
	}
	for i := range p {
		require.Equal(t, byte(i), p[i])
	}
}

func TestAllocZero(t *testing.T) {
	a := Init(HeapBacking{})
	defer a.Deinit()

	p, err := a.Alloc(0, 1)
	require.NoError(t, err)
	require.Len(t, p, 0)
	require.Equal(t, 0, a.Count(), "zero-length alloc must not grow live state")

	// Freeing it is a no-op either direction.
	a.FreeLeft(p)
	a.FreeRight(p)
	require.Equal(t, 0, a.Count())
}

func TestAllocAlignment(t *testing.T) {
	a := Init(HeapBacking{})
	defer a.Deinit()

	for _, align := range []int{1, 2, 4, 8, 16, 64, 4096} {
		p, err := a.Alloc(3, align)
		require.NoError(t, err)
		addr := uintptr(unsafe.Pointer(&p[0]))
		require.Zero(t, addr%uintptr(align), "align=%d", align)
	}
}

func TestAllocInvalidAlignmentPanics(t *testing.T) {
	a := Init(HeapBacking{})
	defer a.Deinit()

	require.Panics(t, func() { _, _ = a.Alloc(1, 3) })
}

func TestAllocNegativeSizePanics(t *testing.T) {
	a := Init(HeapBacking{})
	defer a.Deinit()

	require.Panics(t, func() { _, _ = a.Alloc(-1, 1) })
}

func TestTrailerRoundTrip(t *testing.T) {
	a := Init(HeapBacking{})
	defer a.Deinit()

	p, err := a.Alloc(1, 64)
	require.NoError(t, err)

	rawStart, rawEnd, chunkIdx := a.decodeTrailer(p)
	require.Equal(t, uint8(0), chunkIdx)
	require.GreaterOrEqual(t, uintptr(unsafe.Pointer(&p[0])), rawStart)
	require.LessOrEqual(t, uintptr(unsafe.Pointer(&p[0]))+uintptr(len(p)), rawEnd)
}

func TestFreeLeftThenFreeRightDrainsToZero(t *testing.T) {
	a := Init(HeapBacking{})
	defer a.Deinit()

	buf1, err := a.Alloc(4, 1)
	require.NoError(t, err)
	buf2, err := a.Alloc(12, 1)
	require.NoError(t, err)
	require.NotZero(t, a.Count())

	a.FreeLeft(buf1)
	a.FreeRight(buf2)
	require.Equal(t, 0, a.Count())
}

// TestSlidingWindow is spec.md Scenario A.
func TestSlidingWindow(t *testing.T) {
	a := Init(HeapBacking{})
	defer a.Deinit()

	buf1, err := a.Alloc(4, 1)
	require.NoError(t, err)
	buf2, err := a.Alloc(12, 1)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		a.FreeLeft(buf1)
		buf1 = buf2
		buf2, err = a.Alloc(7, 1)
		require.NoError(t, err)
		require.Len(t, buf2, 7)
	}

	a.FreeRight(buf2)
	a.FreeRight(buf1)
	require.Equal(t, 0, a.Count())
}

// TestLIFODrain is spec.md Scenario B.
func TestLIFODrain(t *testing.T) {
	a := Init(HeapBacking{})
	defer a.Deinit()

	bufs := make([][]byte, 100)
	for i := range bufs {
		p, err := a.Alloc(12, 1)
		require.NoError(t, err)
		bufs[i] = p
	}

	for i := 99; i >= 0; i -= 3 {
		a.FreeRight(bufs[i])
	}
	require.Equal(t, 0, a.Count())
}

// TestWraparound is spec.md Scenario C.
func TestWraparound(t *testing.T) {
	a := Init(HeapBacking{}, WithInitialChunkSize(64))
	defer a.Deinit()

	bufs := make([][]byte, 5)
	for i := range bufs {
		p, err := a.Alloc(64, 1)
		require.NoError(t, err)
		bufs[i] = p
	}
	a.FreeLeft(bufs[0])
	a.FreeLeft(bufs[1])
	a.FreeLeft(bufs[2])

	p, err := a.Alloc(64, 1)
	require.NoError(t, err)
	require.Len(t, p, 64)

	require.NotNil(t, a.rb.left)
	require.NotNil(t, a.rb.right)
	require.Nil(t, a.rb.overflow, "must be wrapped, not overflowing")

	// The surviving two original allocations and the new one must not
	// overlap.
	assertNoOverlap(t, p, bufs[3])
	assertNoOverlap(t, p, bufs[4])
	assertNoOverlap(t, bufs[3], bufs[4])
}

// TestOverflowFormation is spec.md Scenario D.
func TestOverflowFormation(t *testing.T) {
	a := Init(HeapBacking{}, WithInitialChunkSize(64))
	defer a.Deinit()

	bufs := make([][]byte, 5)
	for i := range bufs {
		p, err := a.Alloc(64, 1)
		require.NoError(t, err)
		bufs[i] = p
	}
	a.FreeLeft(bufs[0])
	a.FreeLeft(bufs[1])
	a.FreeLeft(bufs[2])
	_, err := a.Alloc(64, 1) // lands in left's chunk 0; the region is now wrapped
	require.NoError(t, err)

	// Now force an allocation that can't fit in left's tail chunk.
	big, err := a.Alloc(1<<20, 1)
	require.NoError(t, err)
	require.Len(t, big, 1<<20)
	require.NotNil(t, a.rb.overflow, "must have formed an overflow run")

	a.FreeLeft(bufs[3])
	a.FreeLeft(bufs[4])
	a.FreeLeft(big)

	require.Nil(t, a.rb.overflow)
	require.Nil(t, a.rb.right, "geometry must flatten back to linear")
	require.Equal(t, 0, a.Count())
}

// TestChunkCapFailure is spec.md Scenario F. Reaching 64 chunks through
// real geometric growth would need astronomical backing memory (spec.md
// §4.3's own observation), so the vector is jammed to the cap directly and
// only the boundary allocation goes through the real path.
func TestChunkCapFailure(t *testing.T) {
	a := Init(HeapBacking{}, WithInitialChunkSize(8))
	defer a.Deinit()

	first, err := a.Alloc(4, 1)
	require.NoError(t, err)
	copy(first, []byte{1, 2, 3, 4})

	for len(a.rb.chunks) < maxChunks {
		a.rb.chunks = append(a.rb.chunks, newChunk(make([]byte, 64)))
	}

	// Too large for the 16 bytes left in chunk 0, so a new chunk is needed.
	_, err = a.Alloc(64, 1)
	require.ErrorIs(t, err, ErrChunkLimitReached)

	require.Equal(t, maxChunks, a.NumChunks())
	require.Equal(t, []byte{1, 2, 3, 4}, []byte(first))
}

func assertNoOverlap(t *testing.T, a, b []byte) {
	t.Helper()
	if len(a) == 0 || len(b) == 0 {
		return
	}
	aStart := uintptr(unsafe.Pointer(&a[0]))
	aEnd := aStart + uintptr(len(a))
	bStart := uintptr(unsafe.Pointer(&b[0]))
	bEnd := bStart + uintptr(len(b))
	require.False(t, aStart < bEnd && bStart < aEnd, "overlapping slices")
}

func BenchmarkAllocFreeLeft(b *testing.B) {
	a := Init(HeapBacking{})
	defer a.Deinit()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, _ := a.Alloc(64, 8)
		a.FreeLeft(p)
	}
}

func BenchmarkAllocFreeRight(b *testing.B) {
	a := Init(HeapBacking{})
	defer a.Deinit()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, _ := a.Alloc(64, 8)
		a.FreeRight(p)
	}
}
