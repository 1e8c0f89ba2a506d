// Package split chooses the grid lines of a facade along one axis.
//
// Candidates are the strict local minima of a gradient profile (Ver for rows,
// Hor for columns). Every inclusion/exclusion assignment of the candidates is
// scored against the symmetry profile of the same axis and the best valid
// assignment becomes the SplitLineSet.
//
// # Scoring
//
// For an assignment to be valid, consecutive included splits must be at least
// MinGap apart and at most MaxSpacingFactor times the spacing estimate
// (floor height or tile width). A valid assignment scores:
//
//   - -0.5 * S_max[c] for every excluded candidate c
//   - +S_max[c] for every included candidate after the first whose distance
//     from the previous included split matches the mirror offset at either
//     split within OffsetTolerance
//
// divided by the number of included splits (at least 1).
//
// # Search
//
// Assignments are produced by an Iterator. BitmaskIterator enumerates all 2^n
// of them, so the candidate count is capped by MaxCandidates. Beyond the cap,
// PolicyStrict fails with ErrSearchSpaceTooLarge and PolicyStrongest searches
// only the MaxCandidates candidates with the highest S_max.
package split
