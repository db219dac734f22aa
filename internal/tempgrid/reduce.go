package tempgrid

import (
	"math/rand"
	"sort"

	"github.com/aviamap/flyway-tools/internal/geo"
)

// DefaultSampleSeed keeps every reduction reproducible: rerunning the
// same command over the same input yields the same output file.
const DefaultSampleSeed = 42

type stratumKey struct {
	Lat  float64
	Lon  float64
	Date string
}

// ReduceOptions controls stratified downsampling.
type ReduceOptions struct {
	// Fraction of each stratum to keep, in (0, 1]. Defaults to 0.5.
	Fraction float64
	// Seed for the sampler. Defaults to DefaultSampleSeed.
	Seed int64
	// BinDigits rounds coordinates when forming strata: 0 gives whole
	// degree bins, 1 gives 0.1 degree bins.
	BinDigits int
	// Region, when non-nil, limits the reduction to samples inside the
	// rectangle. Samples outside pass through untouched.
	Region *geo.Rect
}

func (o ReduceOptions) fraction() float64 {
	if o.Fraction <= 0 || o.Fraction > 1 {
		return 0.5
	}
	return o.Fraction
}

func (o ReduceOptions) seed() int64 {
	if o.Seed == 0 {
		return DefaultSampleSeed
	}
	return o.Seed
}

// Reduce downsamples the dataset while preserving its spatial and
// temporal distribution. Samples are grouped into strata by rounded
// coordinates and date, the configured fraction (at least one sample)
// is drawn from each stratum, and the result is shuffled to remove
// ordering bias. When a region is set only samples inside it are
// thinned; the rest of the dataset is carried through unchanged.
func Reduce(samples []Sample, opts ReduceOptions) []Sample {
	if len(samples) == 0 {
		return nil
	}

	var passthrough []Sample
	strata := make(map[stratumKey][]Sample)
	for _, s := range samples {
		if opts.Region != nil && !opts.Region.Contains(s.Lon, s.Lat) {
			passthrough = append(passthrough, s)
			continue
		}
		key := stratumKey{
			Lat:  geo.RoundTo(s.Lat, opts.BinDigits),
			Lon:  geo.RoundTo(s.Lon, opts.BinDigits),
			Date: s.Date,
		}
		strata[key] = append(strata[key], s)
	}

	// Map iteration order is random; visiting strata in sorted order
	// keeps the output deterministic for a fixed seed.
	keys := make([]stratumKey, 0, len(strata))
	for key := range strata {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Lat != b.Lat {
			return a.Lat < b.Lat
		}
		if a.Lon != b.Lon {
			return a.Lon < b.Lon
		}
		return a.Date < b.Date
	})

	rng := rand.New(rand.NewSource(opts.seed()))
	frac := opts.fraction()

	out := make([]Sample, 0, len(passthrough)+len(samples)/2)
	for _, key := range keys {
		rows := strata[key]
		keep := int(float64(len(rows)) * frac)
		if keep < 1 {
			keep = 1
		}
		if keep >= len(rows) {
			out = append(out, rows...)
			continue
		}
		for _, idx := range rng.Perm(len(rows))[:keep] {
			out = append(out, rows[idx])
		}
	}
	out = append(out, passthrough...)

	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
