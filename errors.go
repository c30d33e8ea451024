package circalloc

import "errors"

// ErrChunkLimitReached is returned when the chunk vector already holds
// maxChunks chunks. It exists because each payload trailer packs its owning
// chunk's index into a single byte (spec.md §6); growing past the cap would
// make that index unrepresentable.
var ErrChunkLimitReached = errors.New("circalloc: chunk vector exhausted")

// ErrOutOfMemory is returned when the backing allocator fails to produce a
// new chunk.
var ErrOutOfMemory = errors.New("circalloc: backing allocator failed")
