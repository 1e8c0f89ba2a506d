package split

import "testing"

func TestBitmaskIterator(t *testing.T) {
	for _, n := range []int{0, 1, 3, 10} {
		it := NewBitmaskIterator(n)
		seen := make(map[uint64]bool)
		count := 0
		for it.Next() {
			var key uint64
			for i, inc := range it.Assignment() {
				if inc {
					key |= 1 << i
				}
			}
			if seen[key] {
				t.Fatalf("n=%d: assignment %b produced twice", n, key)
			}
			seen[key] = true
			count++
		}
		if count != 1<<n {
			t.Errorf("n=%d: got %d assignments, want %d", n, count, 1<<n)
		}
		if it.Total() != 1<<n {
			t.Errorf("n=%d: Total got %d, want %d", n, it.Total(), 1<<n)
		}
	}
}

func TestBitmaskIterator_Order(t *testing.T) {
	it := NewBitmaskIterator(2)
	want := [][]bool{{false, false}, {true, false}, {false, true}, {true, true}}
	for i, w := range want {
		if !it.Next() {
			t.Fatalf("iterator ended after %d assignments", i)
		}
		got := it.Assignment()
		if got[0] != w[0] || got[1] != w[1] {
			t.Errorf("assignment %d: got %v, want %v", i, got, w)
		}
	}
	if it.Next() {
		t.Error("iterator should be exhausted")
	}
}

func TestNewBitmaskIterator_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for too many candidates")
		}
	}()
	NewBitmaskIterator(MaxBitmaskCandidates + 1)
}
