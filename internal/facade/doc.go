// Package facade runs the full segmentation pipeline on one facade image.
//
// # Pipeline
//
//  1. Luminance raster, plus a Sobel edge raster when Config.UseEdgeMap is set
//  2. Symmetry profiles of the scan raster (cached through symmetry.Cache)
//  3. Floor height and tile width from the offset profiles
//  4. Gradient field of the luminance raster, sigma = floor height * SigmaRatio
//     unless Config.Sigma is set
//  5. Row and column split selection
//  6. Tile subdivision rounds on the resulting grid
//  7. Irreducible facade fold of the color image
//
// Every stage reports through an optional Observer, which is the only way the
// pipeline emits progress. Nothing in this package writes files or logs on
// its own.
//
// # Configuration
//
// Config carries every tunable with yaml tags. DefaultConfig returns the
// standard constants and LoadConfig overlays a YAML file on top of them.
package facade
