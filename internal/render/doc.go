// Package render draws pipeline results for people: split and tile overlays
// on the source image, and line plots of the symmetry and gradient profiles.
//
// Overlays are composited onto an RGBA copy of the input, so translucent line
// colors blend with the facade underneath. Tile types are colored from an
// evenly spaced HSV palette (github.com/lucasb-eyer/go-colorful) that depends
// only on the number of types, which keeps repeated renders identical.
//
// Plots use gonum.org/v1/plot. Every curve is rescaled to [0, 1] so curves
// with different units share an axis; a constant curve renders as zero.
package render
