package tempgrid

import (
	"math"
	"math/rand"
	"sort"

	"github.com/aviamap/flyway-tools/internal/geo"
)

// DefaultMatchRadius is how far apart, in degrees, two grid locations
// may sit and still be treated as the same station.
const DefaultMatchRadius = 0.15

type location struct {
	Lat float64
	Lon float64
}

// MatchOptions controls reference matching.
type MatchOptions struct {
	// Radius is the maximum location distance in degrees. Defaults to
	// DefaultMatchRadius.
	Radius float64
	// Seed for the sampler. Defaults to DefaultSampleSeed.
	Seed int64
}

func (o MatchOptions) radius() float64 {
	if o.Radius <= 0 {
		return DefaultMatchRadius
	}
	return o.Radius
}

func (o MatchOptions) seed() int64 {
	if o.Seed == 0 {
		return DefaultSampleSeed
	}
	return o.Seed
}

// MatchResult reports what Match produced.
type MatchResult struct {
	Samples          []Sample
	TargetRows       int
	TargetLocations  int
	MatchedLocations int
}

// Match builds a subset of pool whose size and spatial footprint track
// the reference dataset. Locations are compared at two-decimal
// precision; a reference location without an exact counterpart is
// matched to the nearest pool location within the radius. All pool
// rows at matched locations form the candidate set, which is then
// sampled down to the reference row count. When fewer candidates
// exist than reference rows the whole candidate set is returned.
func Match(reference, pool []Sample, opts MatchOptions) *MatchResult {
	byLocation := make(map[location][]Sample)
	for _, s := range pool {
		key := location{Lat: geo.RoundTo(s.Lat, 2), Lon: geo.RoundTo(s.Lon, 2)}
		byLocation[key] = append(byLocation[key], s)
	}

	targets := make(map[location]bool)
	for _, s := range reference {
		targets[location{Lat: geo.RoundTo(s.Lat, 2), Lon: geo.RoundTo(s.Lon, 2)}] = true
	}

	poolLocations := make([]location, 0, len(byLocation))
	for loc := range byLocation {
		poolLocations = append(poolLocations, loc)
	}
	sort.Slice(poolLocations, func(i, j int) bool {
		a, b := poolLocations[i], poolLocations[j]
		if a.Lat != b.Lat {
			return a.Lat < b.Lat
		}
		return a.Lon < b.Lon
	})

	radius := opts.radius()
	matched := make(map[location]bool)
	for target := range targets {
		if _, ok := byLocation[target]; ok {
			matched[target] = true
			continue
		}
		if best, ok := nearest(target, poolLocations, radius); ok {
			matched[best] = true
		}
	}

	matchedKeys := make([]location, 0, len(matched))
	for loc := range matched {
		matchedKeys = append(matchedKeys, loc)
	}
	sort.Slice(matchedKeys, func(i, j int) bool {
		a, b := matchedKeys[i], matchedKeys[j]
		if a.Lat != b.Lat {
			return a.Lat < b.Lat
		}
		return a.Lon < b.Lon
	})

	var candidates []Sample
	for _, loc := range matchedKeys {
		candidates = append(candidates, byLocation[loc]...)
	}

	result := &MatchResult{
		TargetRows:       len(reference),
		TargetLocations:  len(targets),
		MatchedLocations: len(matched),
	}
	if len(candidates) <= len(reference) {
		result.Samples = candidates
		return result
	}

	rng := rand.New(rand.NewSource(opts.seed()))
	result.Samples = make([]Sample, 0, len(reference))
	for _, idx := range rng.Perm(len(candidates))[:len(reference)] {
		result.Samples = append(result.Samples, candidates[idx])
	}
	return result
}

// nearest scans pool locations for the closest one within radius.
func nearest(target location, pool []location, radius float64) (location, bool) {
	var best location
	minDist := math.Inf(1)
	found := false
	for _, loc := range pool {
		d := math.Hypot(loc.Lat-target.Lat, loc.Lon-target.Lon)
		if d < minDist && d < radius {
			minDist = d
			best = loc
			found = true
		}
	}
	return best, found
}
