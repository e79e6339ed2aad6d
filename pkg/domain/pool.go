package domain

import (
	"sync"
)

// =============================================================================
// Scratch Slice Pool
// =============================================================================

// scratchPools holds the package-level pools for traversal scratch state.
//
// Search and relaxation routines allocate a visited set, a queue, and
// distance/parent tables on every call. Pooling those slices keeps repeated
// solver runs from churning the garbage collector. The pools are safe for
// concurrent use.
var scratchPools = struct {
	intSlices   sync.Pool
	int64Slices sync.Pool
	boolSlices  sync.Pool
}{
	intSlices: sync.Pool{
		New: func() any {
			s := make([]int, 0, 128)
			return &s
		},
	},
	int64Slices: sync.Pool{
		New: func() any {
			s := make([]int64, 0, 128)
			return &s
		},
	},
	boolSlices: sync.Pool{
		New: func() any {
			s := make([]bool, 0, 128)
			return &s
		},
	},
}

// AcquireIntSlice obtains a zeroed []int of length n from the pool.
//
// Call ReleaseIntSlice when done to return the backing array for reuse.
func AcquireIntSlice(n int) []int {
	ps := scratchPools.intSlices.Get().(*[]int)
	s := *ps
	if cap(s) < n {
		return make([]int, n)
	}
	s = s[:n]
	clear(s)
	return s
}

// ReleaseIntSlice returns a []int to the pool.
//
// After calling this function the slice must not be used.
// It is safe to pass nil.
func ReleaseIntSlice(s []int) {
	if s == nil {
		return
	}
	s = s[:0]
	scratchPools.intSlices.Put(&s)
}

// AcquireInt64Slice obtains a zeroed []int64 of length n from the pool.
//
// Call ReleaseInt64Slice when done to return the backing array for reuse.
func AcquireInt64Slice(n int) []int64 {
	ps := scratchPools.int64Slices.Get().(*[]int64)
	s := *ps
	if cap(s) < n {
		return make([]int64, n)
	}
	s = s[:n]
	clear(s)
	return s
}

// ReleaseInt64Slice returns a []int64 to the pool.
//
// After calling this function the slice must not be used.
// It is safe to pass nil.
func ReleaseInt64Slice(s []int64) {
	if s == nil {
		return
	}
	s = s[:0]
	scratchPools.int64Slices.Put(&s)
}

// AcquireBoolSlice obtains a zeroed []bool of length n from the pool.
//
// Call ReleaseBoolSlice when done to return the backing array for reuse.
func AcquireBoolSlice(n int) []bool {
	ps := scratchPools.boolSlices.Get().(*[]bool)
	s := *ps
	if cap(s) < n {
		return make([]bool, n)
	}
	s = s[:n]
	clear(s)
	return s
}

// ReleaseBoolSlice returns a []bool to the pool.
//
// After calling this function the slice must not be used.
// It is safe to pass nil.
func ReleaseBoolSlice(s []bool) {
	if s == nil {
		return
	}
	s = s[:0]
	scratchPools.boolSlices.Put(&s)
}
