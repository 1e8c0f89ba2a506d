package split

// Iterator produces inclusion assignments for a fixed candidate list.
//
// Assignment returns a slice whose i-th element reports whether candidate i is
// included. The slice is only valid until the next call to Next.
type Iterator interface {
	Next() bool
	Assignment() []bool
}

// MaxBitmaskCandidates is the largest candidate count BitmaskIterator accepts.
const MaxBitmaskCandidates = 62

// BitmaskIterator enumerates all 2^n assignments exactly once, starting from
// the all-excluded assignment. Candidate 0 is the least significant bit.
type BitmaskIterator struct {
	n    int
	mask uint64
	end  uint64
	cur  []bool
}

// NewBitmaskIterator returns an iterator over n candidates.
// n must be in [0, MaxBitmaskCandidates].
func NewBitmaskIterator(n int) *BitmaskIterator {
	if n < 0 || n > MaxBitmaskCandidates {
		panic("split: bitmask iterator candidate count out of range")
	}
	return &BitmaskIterator{
		n:   n,
		end: uint64(1) << n,
		cur: make([]bool, n),
	}
}

// Next advances to the next assignment.
func (it *BitmaskIterator) Next() bool {
	if it.mask >= it.end {
		return false
	}
	for i := 0; i < it.n; i++ {
		it.cur[i] = it.mask&(uint64(1)<<i) != 0
	}
	it.mask++
	return true
}

// Assignment returns the current assignment.
func (it *BitmaskIterator) Assignment() []bool {
	return it.cur
}

// Total returns the number of assignments the iterator produces.
func (it *BitmaskIterator) Total() int {
	return int(it.end)
}
