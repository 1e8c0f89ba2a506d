// Package symmetry measures how strongly a facade repeats itself along each axis.
//
// Two independent measurements are provided:
//
//   - GradientField: per-row (Ver) and per-column (Hor) saliency profiles built
//     from axis-aligned intensity gradients. Floor boundaries show up as local
//     minima of Ver, column boundaries as local minima of Hor.
//   - Profile: for every row (column), the translation offset h that makes the
//     band above the row most similar to the band below it, and that best
//     similarity score. Rows that sit on a floor boundary of a regular facade
//     score close to 1 at h = floor height.
//
// # Similarity
//
// Similarity between two equally sized regions is exp(-k * MSD), where MSD is
// the mean squared intensity difference and k defaults to 0.001. It is 1 for
// identical regions and strictly decreasing in MSD.
//
// # Caching
//
// Profiles are the expensive part of the pipeline (O(rows * cols * |offsets|)).
// An Analyzer can be given a Cache so that repeated runs over the same image
// skip the scan entirely. MemoryCache and DirCache are provided; any type
// implementing Cache can be injected.
//
// # Concurrency
//
// Rows, columns and offsets are independent. Scans fan out over
// golang.org/x/sync/errgroup and merge results in index order, so the output
// never depends on scheduling.
package symmetry
