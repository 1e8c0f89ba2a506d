package symmetry

// DefaultSpacingTolerance is the window half-width used by EstimateSpacing.
const DefaultSpacingTolerance = 3

// EstimateSpacing returns the dominant non-zero offset in a profile.
//
// Every distinct offset v is scored by how many non-zero offsets lie within
// tolerance of it; the best-supported value wins, the smaller one on ties.
// Returns 0 when every offset is zero.
func EstimateSpacing(offsets []int, tolerance int) int {
	counts := make(map[int]int)
	for _, o := range offsets {
		if o != 0 {
			counts[o]++
		}
	}

	best, bestSupport := 0, 0
	for v := range counts {
		support := 0
		for u, n := range counts {
			if abs(u-v) <= tolerance {
				support += n
			}
		}
		if support > bestSupport || (support == bestSupport && v < best) {
			best, bestSupport = v, support
		}
	}
	return best
}

// LocalMinima returns the indices i in [from, to) at which values[i] is
// strictly smaller than every other value within radius. Indices whose
// window would leave the slice are skipped.
func LocalMinima(values []float64, radius, from, to int) []int {
	from = max(from, radius)
	to = min(to, len(values)-radius)

	var out []int
	for i := from; i < to; i++ {
		isMin := true
		for d := 1; d <= radius && isMin; d++ {
			if values[i-d] <= values[i] || values[i+d] <= values[i] {
				isMin = false
			}
		}
		if isMin {
			out = append(out, i)
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
