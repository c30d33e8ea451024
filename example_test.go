package circalloc

import (
	"fmt"
	"unsafe"
)

// Example demonstrates the three core primitives: push (Alloc), pop-oldest
// (FreeLeft), and pop-newest (FreeRight).
func Example() {
	a := Init(HeapBacking{})
	defer a.Deinit()

	buf1, _ := a.Alloc(4, 1)
	buf2, _ := a.Alloc(12, 1)
	fmt.Printf("Allocated %d and %d byte payloads\n", len(buf1), len(buf2))
	fmt.Printf("Live bytes: %d\n", a.Count())

	a.FreeLeft(buf1) // pop the oldest allocation
	fmt.Printf("After FreeLeft, live bytes: %d\n", a.Count())

	a.FreeRight(buf2) // pop the newest allocation
	fmt.Printf("After FreeRight, live bytes: %d\n", a.Count())

	// Output:
	// Allocated 4 and 12 byte payloads
	// Live bytes: 40
	// After FreeLeft, live bytes: 24
	// After FreeRight, live bytes: 0
}

// ExampleAllocator_Metrics demonstrates monitoring allocator bookkeeping.
func ExampleAllocator_Metrics() {
	a := Init(HeapBacking{})
	defer a.Deinit()

	_, _ = a.Alloc(4, 1)
	_, _ = a.Alloc(12, 1)

	m := a.Metrics()
	fmt.Printf("Chunks: %d\n", m.NumChunks)
	fmt.Printf("Capacity: %d bytes\n", m.Capacity)
	fmt.Printf("Size in use: %d bytes\n", m.SizeInUse)
	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)

	// Output:
	// Chunks: 1
	// Capacity: 8192 bytes
	// Size in use: 40 bytes
	// Utilization: 0.49%
}

// ExampleAllocator_alignment demonstrates that every payload is aligned as
// requested, regardless of the raw backing buffer's own address.
func ExampleAllocator_alignment() {
	a := Init(HeapBacking{})
	defer a.Deinit()

	p, _ := a.Alloc(1, 64)
	fmt.Println(uintptr(unsafe.Pointer(&p[0]))%64 == 0)

	// Output:
	// true
}
