package flyway

import (
	"github.com/aviamap/flyway-tools/internal/geo"
)

// DefaultLongitudeSplit is the longitude separating the western
// (Americas) corridor from the eastern (Europe/Africa/Asia) corridor.
const DefaultLongitudeSplit = -20.0

// Geographic restriction boxes applied by the clusterer. The Europe box
// covers continental Europe; the Africa band limits the eastern flyway
// to Africa's longitude range with no latitude restriction.
var (
	europeBox = geo.NewRect(-10, 45, 35, 72)

	africaMinLon = -20.0
	africaMaxLon = 51.0
)

// NewZealandRegion is the fixed exclusion rectangle used for species
// with introduced populations around New Zealand and nearby Pacific
// islands.
var NewZealandRegion = geo.NewRect(165, 180, -55, -25)

// ClusterOptions narrows flyway membership.
type ClusterOptions struct {
	// Split is the longitude threshold between the western and eastern
	// corridors.
	Split float64
	// AmericasOnly drops the eastern cluster entirely.
	AmericasOnly bool
	// EuropeOnly keeps eastern cells only inside the continental
	// Europe box.
	EuropeOnly bool
	// AfricaOnlySouth keeps eastern cells only inside Africa's
	// longitude band. Ignored when EuropeOnly is set.
	AfricaOnlySouth bool
	// AmericasSouthLimit, when non-nil, keeps western cells only at or
	// above this latitude.
	AmericasSouthLimit *float64
}

// DefaultClusterOptions returns options with the standard longitude
// split and no narrowing.
func DefaultClusterOptions() ClusterOptions {
	return ClusterOptions{Split: DefaultLongitudeSplit}
}

// Cluster partitions the density map into at most two flyway clusters:
// cells west of the split longitude form the Americas cluster, all
// remaining cells the eastern cluster, subject to the options'
// narrowing rules. Empty clusters are omitted; the western cluster, if
// present, always comes first.
func Cluster(m DensityMap, opts ClusterOptions) []DensityMap {
	if len(m) == 0 {
		return nil
	}

	western := make(DensityMap)
	eastern := make(DensityMap)

	for key, density := range m {
		lon, lat := key.Lon(), key.Lat()
		if lon < opts.Split {
			if opts.AmericasSouthLimit != nil && lat < *opts.AmericasSouthLimit {
				continue
			}
			western[key] = density
			continue
		}
		if opts.AmericasOnly {
			continue
		}
		switch {
		case opts.EuropeOnly:
			if europeBox.Contains(lon, lat) {
				eastern[key] = density
			}
		case opts.AfricaOnlySouth:
			if lon >= africaMinLon && lon <= africaMaxLon {
				eastern[key] = density
			}
		default:
			eastern[key] = density
		}
	}

	var clusters []DensityMap
	if len(western) > 0 {
		clusters = append(clusters, western)
	}
	if len(eastern) > 0 {
		clusters = append(clusters, eastern)
	}
	return clusters
}

// Extremes returns the northernmost and southernmost cell centers in a
// cluster. Ties on latitude break toward the lower longitude so the
// result does not depend on map iteration order.
func Extremes(m DensityMap) (north, south geo.Point, err error) {
	if len(m) == 0 {
		return geo.Point{}, geo.Point{}, ErrEmptyCluster
	}

	first := true
	var nKey, sKey CellKey
	for key := range m {
		if first {
			nKey, sKey = key, key
			first = false
			continue
		}
		if key.LatMilli > nKey.LatMilli ||
			(key.LatMilli == nKey.LatMilli && key.LonMilli < nKey.LonMilli) {
			nKey = key
		}
		if key.LatMilli < sKey.LatMilli ||
			(key.LatMilli == sKey.LatMilli && key.LonMilli < sKey.LonMilli) {
			sKey = key
		}
	}
	return nKey.Point(), sKey.Point(), nil
}
