// Package tile refines the top-level facade grid one cut at a time.
//
// The row and column SplitLineSets partition the facade into tiles. Tiles in
// the same grid row band and column band are assumed to be instances of the
// same structural unit; intervals of similar extent share a type, so a tile's
// Type is the pair (row type, column type).
//
// Each round every tile proposes at most one Subdivision, the cut closest to
// one of its edges among the local minima of its own gradient profiles. The
// proposals of a type are pooled into Gaussian-weighted histograms of cut
// position, one per axis, and the stronger axis's consensus cut is applied to
// all tiles of that type. Rounds repeat until no type proposes anything.
//
// # State
//
// Rounds never mutate their input. Round returns a new State whose Tiles carry
// fresh Subdivision slices, so a State handed to an observer stays valid.
package tile
