// Package geo provides the small amount of planar geometry the data
// pipeline needs: lon/lat points, inclusive bounding rectangles, and the
// fixed-size degree binning used for heatmap grids. All coordinates are
// flat decimal degrees; there is no projection.
package geo

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Point is a longitude/latitude pair in decimal degrees.
type Point struct {
	Lon float64
	Lat float64
}

// Rect is an axis-aligned rectangle in (lon, lat) space with inclusive
// bounds on all four edges. The zero value is an empty rectangle that
// contains nothing.
type Rect struct {
	rect r2.Rect
}

// NewRect builds a rectangle from its longitude and latitude ranges.
// Bounds are normalised so min/max order does not matter.
func NewRect(minLon, maxLon, minLat, maxLat float64) Rect {
	return Rect{rect: r2.Rect{
		X: r1.IntervalFromPoint(minLon).AddPoint(maxLon),
		Y: r1.IntervalFromPoint(minLat).AddPoint(maxLat),
	}}
}

// Contains reports whether the point lies inside the rectangle.
// Points exactly on an edge count as inside.
func (r Rect) Contains(lon, lat float64) bool {
	return r.rect.ContainsPoint(r2.Point{X: lon, Y: lat})
}

// ContainsPoint is Contains for a Point value.
func (r Rect) ContainsPoint(p Point) bool {
	return r.Contains(p.Lon, p.Lat)
}

// NormalizeLon wraps a longitude into [-180, 180).
func NormalizeLon(lon float64) float64 {
	m := math.Mod(lon+180.0, 360.0)
	if m < 0 {
		m += 360.0
	}
	return m - 180.0
}

// BinIndex returns the index of the grid bin containing coord for the
// given bin size in degrees.
func BinIndex(coord, step float64) int {
	return int(math.Floor(coord / step))
}

// BinCenter returns the center coordinate of a grid bin.
func BinCenter(bin int, step float64) float64 {
	return (float64(bin) + 0.5) * step
}

// RoundTo rounds x to the given number of decimal digits.
func RoundTo(x float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(x*scale) / scale
}
