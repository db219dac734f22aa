// Package flyway extracts migration paths from weekly density heatmaps.
// The pipeline is a linear chain over an in-memory density map:
// aggregate frames, filter excluded regions, normalise, cluster into
// flyways, then trace and smooth one path per flyway.
package flyway

import (
	"errors"
	"math"

	"github.com/aviamap/flyway-tools/internal/geo"
	"github.com/aviamap/flyway-tools/internal/heatmap"
)

var (
	// ErrEmptyDensityMap is returned when aggregation produces no cells.
	ErrEmptyDensityMap = errors.New("flyway: empty density map")
	// ErrEmptyCluster is returned when extremes are requested for a
	// cluster with no cells.
	ErrEmptyCluster = errors.New("flyway: empty cluster")
)

// keyScale is the fixed-point scale for cell keys: milli-degrees.
// Heatmap cells are written with at most three decimal places, so
// scaling by 1000 gives exact integer keys and avoids float equality
// as a map-key hazard.
const keyScale = 1000

// CellKey identifies a grid cell center in milli-degrees.
type CellKey struct {
	LonMilli int64
	LatMilli int64
}

// KeyFor builds the cell key for a lon/lat pair.
func KeyFor(lon, lat float64) CellKey {
	return CellKey{
		LonMilli: int64(math.Round(lon * keyScale)),
		LatMilli: int64(math.Round(lat * keyScale)),
	}
}

// Lon returns the cell-center longitude in degrees.
func (k CellKey) Lon() float64 { return float64(k.LonMilli) / keyScale }

// Lat returns the cell-center latitude in degrees.
func (k CellKey) Lat() float64 { return float64(k.LatMilli) / keyScale }

// Point returns the cell center as a geo.Point.
func (k CellKey) Point() geo.Point { return geo.Point{Lon: k.Lon(), Lat: k.Lat()} }

// DensityMap maps grid cells to accumulated density. Transforms return
// new maps; inputs are never mutated.
type DensityMap map[CellKey]float64

// Aggregate collapses all frames into one cumulative density per cell.
// Coincident cells across weeks sum their densities; coordinates must
// match exactly (frames are expected to share a common grid).
func Aggregate(frames []heatmap.Frame) DensityMap {
	m := make(DensityMap)
	for _, frame := range frames {
		for _, cell := range frame.Cells {
			m[KeyFor(cell.Lon, cell.Lat)] += cell.Density
		}
	}
	return m
}

// FilterRegions removes cells whose centers fall inside any of the
// exclusion rectangles. Bounds are inclusive on all four edges.
func FilterRegions(m DensityMap, regions []geo.Rect) DensityMap {
	if len(regions) == 0 {
		return m
	}
	out := make(DensityMap, len(m))
cells:
	for key, density := range m {
		for _, r := range regions {
			if r.Contains(key.Lon(), key.Lat()) {
				continue cells
			}
		}
		out[key] = density
	}
	return out
}

// Normalize rescales densities to [0, 1] by dividing by the maximum.
// An empty map stays empty; if the maximum is zero every output value
// is zero rather than failing on division.
func Normalize(m DensityMap) DensityMap {
	if len(m) == 0 {
		return DensityMap{}
	}
	max := 0.0
	for _, density := range m {
		if density > max {
			max = density
		}
	}
	out := make(DensityMap, len(m))
	for key, density := range m {
		if max == 0 {
			out[key] = 0
		} else {
			out[key] = density / max
		}
	}
	return out
}
