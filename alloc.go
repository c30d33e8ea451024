package circalloc

import "unsafe"

// trailerSize is the packed byte size of a payload trailer: start_unused
// (uint32) + total_unused (uint32) + chunk_index (uint8). spec.md §6 pins
// this layout bit-exact.
const trailerSize = 4 + 4 + 1

// trailerAlign is the alignment the trailer itself is placed at, per
// spec.md §6 ("skip bytes to align to 4").
const trailerAlign = uintptr(4)

var emptyPayload = []byte{}

// Option configures an Allocator at construction time.
type Option func(*Allocator)

// WithInitialChunkSize overrides the seed used by the first chunk's growth
// formula (spec.md §4.3 step 1: max(initial_seed, n)·2). The default is
// DefaultInitialChunkSize.
func WithInitialChunkSize(n int) Option {
	return func(a *Allocator) {
		a.initialSeed = n
	}
}

// Allocator is the growable circular-buffer allocator facade. It packs
// alignment and back-reference metadata adjacent to each payload so that
// FreeLeft/FreeRight can recover the owning chunk from a bare payload
// slice.
//
// Allocator is not safe for concurrent use; this is a deliberate scope
// exclusion (spec.md §1), not an oversight.
type Allocator struct {
	rb          *ringBuffer
	initialSeed int
}

// Init constructs an Allocator drawing chunk storage from backing.
func Init(backing Backing, opts ...Option) *Allocator {
	a := &Allocator{}
	for _, opt := range opts {
		opt(a)
	}
	a.rb = newRingBuffer(backing, a.initialSeed)
	return a
}

// Deinit releases every chunk back to the backing allocator. The Allocator
// must not be used afterward.
func (a *Allocator) Deinit() {
	a.rb.release()
}

// Alloc returns n bytes aligned to align, an alignment that must be a
// power of two. Requesting n == 0 returns a zero-length slice without
// growing any internal state. Alloc fails with ErrOutOfMemory or
// ErrChunkLimitReached when the backing allocator or the chunk vector cap
// is exhausted; the Allocator's state is unchanged on failure.
func (a *Allocator) Alloc(n int, align int) ([]byte, error) {
	if n < 0 {
		panic("circalloc: negative allocation size")
	}
	if align <= 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		panic("circalloc: alignment must be a power of two")
	}
	if n == 0 {
		return emptyPayload, nil
	}

	envelope := n + trailerSize + (align - 1) + (int(trailerAlign) - 1)
	raw, chunkIdx, err := a.rb.alloc(envelope)
	if err != nil {
		return nil, err
	}

	base := uintptr(unsafe.Pointer(&raw[0]))
	payloadAddr := alignUp(base, uintptr(align))
	payloadOff := int(payloadAddr - base)

	payload := raw[payloadOff : payloadOff+n : payloadOff+n]

	trailerAddr := alignUp(payloadAddr+uintptr(n), trailerAlign)
	trailerOff := int(trailerAddr - base)

	startUnused := uint32(payloadOff)
	totalUnused := uint32(len(raw) - n)

	tp := unsafe.Add(unsafe.Pointer(&raw[0]), trailerOff)
	*(*uint32)(tp) = startUnused
	*(*uint32)(unsafe.Add(tp, 4)) = totalUnused
	*(*uint8)(unsafe.Add(tp, 8)) = uint8(chunkIdx)

	return payload, nil
}

// FreeLeft frees everything allocated no later than payload (pop-oldest).
// payload must be the current left edge or newer; violating that is
// undefined behavior, per spec.md §7.
func (a *Allocator) FreeLeft(payload []byte) {
	if len(payload) == 0 {
		return
	}
	_, rawEnd, chunkIdx := a.decodeTrailer(payload)
	chunkBase := uintptr(unsafe.Pointer(&a.rb.chunks[chunkIdx].data[0]))
	firstKept := int(rawEnd - chunkBase)
	a.rb.freeLeft(int(chunkIdx), firstKept)
}

// FreeRight frees everything allocated no earlier than payload
// (pop-newest). payload must be the current right edge or older.
func (a *Allocator) FreeRight(payload []byte) {
	if len(payload) == 0 {
		return
	}
	rawStart, _, chunkIdx := a.decodeTrailer(payload)
	chunkBase := uintptr(unsafe.Pointer(&a.rb.chunks[chunkIdx].data[0]))
	firstRemoved := int(rawStart - chunkBase)
	a.rb.freeRight(int(chunkIdx), firstRemoved)
}

// Count returns the total live bytes across every chunk, including
// per-allocation trailers and padding (spec.md §9 preserves this so the
// end-to-end scenarios stay self-consistent).
func (a *Allocator) Count() int { return a.rb.count() }

func (a *Allocator) trailerPointer(payload []byte) unsafe.Pointer {
	payloadAddr := uintptr(unsafe.Pointer(&payload[0]))
	trailerAddr := alignUp(payloadAddr+uintptr(len(payload)), trailerAlign)
	return unsafe.Add(unsafe.Pointer(&payload[0]), int(trailerAddr-payloadAddr))
}

// decodeTrailer reads the trailer following payload and reconstructs the
// raw buffer bounds [rawStart, rawEnd) that Alloc originally carved out of
// the owning chunk.
func (a *Allocator) decodeTrailer(payload []byte) (rawStart, rawEnd uintptr, chunkIdx uint8) {
	tp := a.trailerPointer(payload)
	startUnused := *(*uint32)(tp)
	totalUnused := *(*uint32)(unsafe.Add(tp, 4))
	chunkIdx = *(*uint8)(unsafe.Add(tp, 8))

	payloadAddr := uintptr(unsafe.Pointer(&payload[0]))
	rawStart = payloadAddr - uintptr(startUnused)
	rawEnd = rawStart + uintptr(totalUnused) + uintptr(len(payload))
	return
}

func alignUp(addr, align uintptr) uintptr {
	if align <= 1 {
		return addr
	}
	mask := align - 1
	return (addr + mask) &^ mask
}
