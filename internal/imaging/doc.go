// Package imaging provides the raster primitives shared by the facade pipeline.
//
// Decoded images (any image.Image) are converted once into a Gray raster: a
// row-major grid of float64 intensities in the 0-255 range. Every downstream
// stage (gradient profiles, symmetry scans, tile subdivision) reads Gray values
// and never touches the source image again.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel), the column index
//   - Y: vertical position (0 = topmost pixel), the row index
//   - For regions, (X1,Y1) is inclusive (top-left), (X2,Y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. A Gray raster is never
// mutated after construction by any function in this module, so it can be
// shared between goroutines without locking.
//
// # Error Handling
//
// Functions return errors wrapping ErrInvalidInput for:
//   - Images with zero width or height
//   - Regions outside the raster bounds or with x1 >= x2 or y1 >= y2
//   - Regions of mismatched size when comparing
//
// File I/O and decode failures are returned wrapped with context.
package imaging
