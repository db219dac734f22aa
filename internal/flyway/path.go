package flyway

import (
	"gonum.org/v1/gonum/stat"

	"github.com/aviamap/flyway-tools/internal/geo"
)

// Default path construction parameters.
const (
	DefaultWaypoints    = 25
	DefaultSmoothWindow = 5
)

// BuildPath traces a migration path from the south anchor to the north
// anchor through the cluster's highest-density cells. The latitude
// interval is divided into waypoints evenly spaced target latitudes;
// for each target the densest cell in a band of half the step width on
// either side is chosen. Bands with no cells fall back to the previous
// waypoint's longitude (or the south anchor's for the first band) at
// the target latitude. The first and last waypoints are always forced
// to the exact south and north anchors, even when the band search
// found a denser cell there.
//
// When north and south share a latitude the path is exactly
// [south, north]. Ties on density break toward the lower longitude,
// then the lower latitude.
func BuildPath(m DensityMap, south, north geo.Point, waypoints int) []geo.Point {
	latSpan := north.Lat - south.Lat
	if latSpan <= 0 {
		return []geo.Point{south, north}
	}
	if waypoints < 1 {
		waypoints = DefaultWaypoints
	}
	if waypoints == 1 {
		// A single slot still gets both anchor overwrites; the north
		// anchor lands last.
		return []geo.Point{north}
	}

	step := latSpan / float64(waypoints-1)
	path := make([]geo.Point, 0, waypoints)

	for i := 0; i < waypoints; i++ {
		target := south.Lat + float64(i)*step
		bandMin := target - step/2
		bandMax := target + step/2

		best, found := densestInBand(m, bandMin, bandMax)
		if found {
			path = append(path, best)
			continue
		}
		// Empty band: carry the previous longitude forward as an
		// interpolated placeholder.
		lon := south.Lon
		if len(path) > 0 {
			lon = path[len(path)-1].Lon
		}
		path = append(path, geo.Point{Lon: lon, Lat: target})
	}

	path[0] = south
	path[len(path)-1] = north
	return path
}

// densestInBand scans the cluster for the highest-density cell whose
// latitude lies in [bandMin, bandMax], inclusive.
func densestInBand(m DensityMap, bandMin, bandMax float64) (geo.Point, bool) {
	var bestKey CellKey
	bestDensity := 0.0
	found := false
	for key, density := range m {
		lat := key.Lat()
		if lat < bandMin || lat > bandMax {
			continue
		}
		if !found || density > bestDensity || (density == bestDensity && lessKey(key, bestKey)) {
			bestKey = key
			bestDensity = density
			found = true
		}
	}
	if !found {
		return geo.Point{}, false
	}
	return bestKey.Point(), true
}

// lessKey orders cells by longitude then latitude, the deterministic
// tie-break used throughout the pipeline.
func lessKey(a, b CellKey) bool {
	if a.LonMilli != b.LonMilli {
		return a.LonMilli < b.LonMilli
	}
	return a.LatMilli < b.LatMilli
}

// SmoothPath applies a centered moving average of the given window to
// the waypoint sequence. Windows are truncated at the boundaries, so
// the output has the same length as the input. Sequences no longer
// than the window are returned unchanged.
func SmoothPath(path []geo.Point, window int) []geo.Point {
	if window < 1 {
		window = DefaultSmoothWindow
	}
	if len(path) <= window {
		return path
	}

	lons := make([]float64, len(path))
	lats := make([]float64, len(path))
	for i, p := range path {
		lons[i] = p.Lon
		lats[i] = p.Lat
	}

	half := window / 2
	smoothed := make([]geo.Point, len(path))
	for i := range path {
		start := i - half
		if start < 0 {
			start = 0
		}
		end := i + half + 1
		if end > len(path) {
			end = len(path)
		}
		smoothed[i] = geo.Point{
			Lon: stat.Mean(lons[start:end], nil),
			Lat: stat.Mean(lats[start:end], nil),
		}
	}
	return smoothed
}
