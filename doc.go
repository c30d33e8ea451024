// Package circalloc implements a growable circular-buffer allocator: a
// bump allocator whose live region can be reclaimed from either edge and
// whose backing storage grows on demand.
//
// # Overview
//
// Unlike a fixed-size ring buffer, the backing storage grows on demand;
// unlike an arena, allocations can be reclaimed without waiting for bulk
// teardown; unlike a general-purpose heap, the allocator never recycles
// interior space — only the leading or trailing edge of the live region.
// This fits workloads with strict FIFO-or-LIFO lifetimes: sliding windows,
// pipelines that drain in the order they fill, and ring-shaped protocol
// buffers.
//
// # Basic Usage
//
//	a := circalloc.Init(circalloc.HeapBacking{})
//	defer a.Deinit()
//
//	buf1, err := a.Alloc(4, 1)
//	buf2, err := a.Alloc(12, 1)
//
//	a.FreeLeft(buf1)  // pop-oldest
//	a.FreeRight(buf2) // pop-newest
//
// # Geometry
//
// The live region is laid out across up to three runs of chunks — left,
// right, overflow — over a single append-only vector of backing chunks.
// Most of the time the region is linear, entirely inside left. When a
// request does not fit in left's tail chunk, a fresh chunk is appended to
// the vector and becomes a third run, overflow, which takes every later
// allocation. Once FreeLeft reaches into overflow, the older runs are
// cleared and the region wraps: overflow becomes right, holding the oldest
// data, and the emptied chunks before it become left, which receives new
// allocations. If that FreeLeft empties overflow too, the region is linear
// again, with left spanning the whole vector.
//
// # Thread Safety
//
// Allocator is not safe for concurrent use. Thread safety is explicitly out
// of scope for this allocator — callers needing cross-goroutine handoff
// should synchronize externally.
//
// # Important Notes
//
//   - Callers must free in strict FIFO (FreeLeft) or LIFO (FreeRight) edge
//     order; freeing an interior allocation is undefined behavior and is
//     not detected.
//   - Memory is not zeroed on free.
//   - The chunk vector is capped at 64 chunks, since each payload's trailer
//     packs its owning chunk's index into a single byte.
//
// # Metrics and Monitoring
//
//	m := a.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//	fmt.Printf("Bytes live: %d\n", m.SizeInUse)
//	fmt.Printf("Total capacity: %d\n", m.Capacity)
package circalloc
