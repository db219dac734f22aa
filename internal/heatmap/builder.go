package heatmap

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aviamap/flyway-tools/internal/geo"
	"github.com/aviamap/flyway-tools/internal/obsdata"
)

// BuilderOptions controls spatial and temporal binning when building a
// heatmap from raw observations.
type BuilderOptions struct {
	// GridDegrees is the grid cell size in degrees. Defaults to 1.0.
	GridDegrees float64
	// SpeciesCode, when set, keeps only records with this speciesCode
	// (case-insensitive).
	SpeciesCode string
	// CountryCode, when set, keeps only records with this countryCode
	// (case-insensitive).
	CountryCode string
	// RoundDigits rounds cell coordinates and densities in the output.
	// Defaults to 3.
	RoundDigits int
	// MaxWeeks truncates the frame list, useful for test runs. Zero
	// means no limit.
	MaxWeeks int
}

type binKey struct {
	week string
	lon  int
	lat  int
}

// BuildFrames aggregates observations into weekly grid-cell density
// frames. Weeks start on Monday; each record's count is summed into the
// grid cell containing its coordinates, and cell centers are emitted
// with longitudes normalised to [-180, 180). Records with an
// unparseable date are skipped.
func BuildFrames(obs []obsdata.Observation, opts BuilderOptions) ([]Frame, error) {
	grid := opts.GridDegrees
	if grid <= 0 {
		grid = 1.0
	}
	digits := opts.RoundDigits
	if digits == 0 {
		digits = 3
	}

	bins := make(map[binKey]float64)
	kept := 0
	for _, o := range obs {
		if opts.SpeciesCode != "" && !strings.EqualFold(o.SpeciesCode, opts.SpeciesCode) {
			continue
		}
		if opts.CountryCode != "" && !strings.EqualFold(o.CountryCode, opts.CountryCode) {
			continue
		}
		week, ok := weekStart(o.Date)
		if !ok {
			continue
		}
		kept++
		key := binKey{
			week: week,
			lon:  geo.BinIndex(o.Lon, grid),
			lat:  geo.BinIndex(o.Lat, grid),
		}
		bins[key] += float64(o.Count)
	}

	if len(bins) == 0 {
		return nil, fmt.Errorf("no heatmap frames generated from %d records", len(obs))
	}

	byWeek := make(map[string][]binKey)
	for key := range bins {
		byWeek[key.week] = append(byWeek[key.week], key)
	}

	weeks := make([]string, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)

	frames := make([]Frame, 0, len(weeks))
	for _, week := range weeks {
		keys := byWeek[week]
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].lon != keys[j].lon {
				return keys[i].lon < keys[j].lon
			}
			return keys[i].lat < keys[j].lat
		})
		cells := make([]Cell, 0, len(keys))
		for _, key := range keys {
			cells = append(cells, Cell{
				Lon:     geo.RoundTo(geo.NormalizeLon(geo.BinCenter(key.lon, grid)), digits),
				Lat:     geo.RoundTo(geo.BinCenter(key.lat, grid), digits),
				Density: geo.RoundTo(bins[key], digits),
			})
		}
		frames = append(frames, Frame{Week: week, Cells: cells})
	}

	if opts.MaxWeeks > 0 && len(frames) > opts.MaxWeeks {
		frames = frames[:opts.MaxWeeks]
	}
	return frames, nil
}

// weekStart parses a YYYY-MM-DD date and returns the ISO date of the
// Monday starting that week.
func weekStart(date string) (string, bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", false
	}
	back := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -back).Format("2006-01-02"), true
}
