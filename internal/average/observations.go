// Package average collapses multi-year datasets into a single
// reference year keyed by day-of-year or week-of-year, producing the
// small files the visualization loads by default.
package average

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/stat"

	"github.com/aviamap/flyway-tools/internal/geo"
	"github.com/aviamap/flyway-tools/internal/obsdata"
)

// DayAverage summarizes one day-of-year across all observed years.
// AvgLat and AvgLon are nil when no observation carried coordinates.
type DayAverage struct {
	Count  float64  `json:"count"`
	AvgLat *float64 `json:"avgLat"`
	AvgLon *float64 `json:"avgLon"`
}

// ObservationDocument is the averaged per-species artifact.
type ObservationDocument struct {
	SpeciesCode string                `json:"speciesCode"`
	SpeciesName string                `json:"speciesName"`
	Description string                `json:"description"`
	ByDayOfYear map[string]DayAverage `json:"byDayOfYear"`
}

// Write stores the document compact; averaged files are fetched by
// the front-end on every page load.
func (d *ObservationDocument) Write(path string) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode averaged observations: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type yearDay struct {
	Year string
	Day  string
}

// Observations averages a species' observations by day-of-year.
// Counts are first totalled per (year, day), then the per-year totals
// are averaged, so a year with heavy coverage does not drown out a
// sparse one. Coordinates are pooled across years. Observations with
// a malformed date are skipped; a missing or non-positive count is
// treated as a single bird.
func Observations(speciesCode, speciesName string, obs []obsdata.Observation) *ObservationDocument {
	counts := make(map[yearDay]float64)
	lats := make(map[string][]float64)
	lons := make(map[string][]float64)

	for _, o := range obs {
		if len(o.Date) < 10 {
			continue
		}
		key := yearDay{Year: o.Date[:4], Day: o.Date[5:10]}

		count := float64(o.Count)
		if count < 1 {
			count = 1
		}
		counts[key] += count

		lats[key.Day] = append(lats[key.Day], o.Lat)
		lons[key.Day] = append(lons[key.Day], o.Lon)
	}

	perDay := make(map[string][]float64)
	for key, total := range counts {
		perDay[key.Day] = append(perDay[key.Day], total)
	}

	byDay := make(map[string]DayAverage, len(perDay))
	for day, yearTotals := range perDay {
		entry := DayAverage{Count: geo.RoundTo(stat.Mean(yearTotals, nil), 1)}
		if pts := lats[day]; len(pts) > 0 {
			v := geo.RoundTo(stat.Mean(pts, nil), 4)
			entry.AvgLat = &v
		}
		if pts := lons[day]; len(pts) > 0 {
			v := geo.RoundTo(stat.Mean(pts, nil), 4)
			entry.AvgLon = &v
		}
		byDay[day] = entry
	}

	return &ObservationDocument{
		SpeciesCode: speciesCode,
		SpeciesName: speciesName,
		Description: "Averaged observation data by day-of-year across all years",
		ByDayOfYear: byDay,
	}
}
