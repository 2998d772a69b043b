package rowassembler

import "github.com/squareup/rowcodec/arena"

// AssemblerOptions configures Assemble.
type AssemblerOptions struct {
	// Concurrency is the number of goroutines Phase 2 partitions rows
	// across. 0 or 1 run the sequential column-major path; values above
	// 1 use the row-major parallel extension. Column-major parallelism
	// is never used: it is unsafe without per-row locking.
	Concurrency int

	// MaxRowBytes caps a single row's total length. 0 means unlimited
	// beyond the row format's own 32-bit descriptor-size ceiling, which
	// Assemble's length pass (through descriptor.Pack) always enforces
	// for every row regardless of this field.
	MaxRowBytes int64

	// Allocator is the buffer allocator used for the output buffer.
	// Defaults to arena.AlignedAllocator{} (64-byte alignment) when nil.
	Allocator arena.Allocator
}

func (o AssemblerOptions) allocator() arena.Allocator {
	if o.Allocator != nil {
		return o.Allocator
	}
	return arena.AlignedAllocator{}
}
