package circalloc

// NumChunks returns the number of chunks currently held in the allocator's
// chunk vector, live or not.
func (a *Allocator) NumChunks() int {
	if a.rb == nil {
		return 0
	}
	return a.rb.numChunks()
}

// Capacity returns the total backing capacity, in bytes, of every chunk in
// the chunk vector.
func (a *Allocator) Capacity() int {
	if a.rb == nil {
		return 0
	}
	return a.rb.capacity()
}

// Utilization returns the ratio of live bytes (per Count) to total
// capacity, 0.0 to 1.0. Returns 0.0 when the allocator has no capacity yet.
func (a *Allocator) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.Count()) / float64(capacity)
}

// Metrics returns a snapshot of the allocator's current bookkeeping.
func (a *Allocator) Metrics() Metrics {
	return Metrics{
		SizeInUse:   a.Count(),
		Capacity:    a.Capacity(),
		NumChunks:   a.NumChunks(),
		Utilization: a.Utilization(),
	}
}

// Metrics is a point-in-time snapshot of an Allocator's bookkeeping,
// summed across its left, right, and overflow runs.
type Metrics struct {
	SizeInUse   int     // Live bytes, including trailers and padding
	Capacity    int     // Total backing capacity across every chunk
	NumChunks   int     // Number of chunks in the chunk vector
	Utilization float64 // SizeInUse / Capacity, 0.0 if Capacity is 0
}
