package average

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aviamap/flyway-tools/internal/geo"
	"github.com/aviamap/flyway-tools/internal/heatmap"
)

// ReferenceYear is the year averaged frames are dated under.
const ReferenceYear = "2024"

type cellPos struct {
	Lon float64
	Lat float64
}

// Heatmap averages a multi-year heatmap by week-of-year. Frames that
// share the same MM-DD week start are merged: cell coordinates are
// snapped to a 0.1 degree grid and each cell's densities are averaged
// across years, rounded to one decimal. The output frames are dated
// under the reference year so the front-end can play them as one
// season.
func Heatmap(doc *heatmap.Document) *heatmap.Document {
	weeks := make(map[string]map[cellPos][]float64)
	for _, frame := range doc.Frames {
		if len(frame.Week) < 10 {
			continue
		}
		weekOfYear := frame.Week[5:10]
		cells, ok := weeks[weekOfYear]
		if !ok {
			cells = make(map[cellPos][]float64)
			weeks[weekOfYear] = cells
		}
		for _, cell := range frame.Cells {
			pos := cellPos{
				Lon: geo.RoundTo(cell.Lon, 1),
				Lat: geo.RoundTo(cell.Lat, 1),
			}
			cells[pos] = append(cells[pos], cell.Density)
		}
	}

	weekKeys := make([]string, 0, len(weeks))
	for week := range weeks {
		weekKeys = append(weekKeys, week)
	}
	sort.Strings(weekKeys)

	out := &heatmap.Document{
		ColorGradient: doc.ColorGradient,
		SpeciesName:   doc.SpeciesName,
	}
	if out.ColorGradient.Min == "" {
		out.ColorGradient = heatmap.ColorGradient{
			Min: heatmap.GradientMin,
			Max: heatmap.GradientMax,
		}
	}

	for _, week := range weekKeys {
		cells := weeks[week]
		if len(cells) == 0 {
			continue
		}

		positions := make([]cellPos, 0, len(cells))
		for pos := range cells {
			positions = append(positions, pos)
		}
		sort.Slice(positions, func(i, j int) bool {
			a, b := positions[i], positions[j]
			if a.Lon != b.Lon {
				return a.Lon < b.Lon
			}
			return a.Lat < b.Lat
		})

		frame := heatmap.Frame{Week: ReferenceYear + "-" + week}
		for _, pos := range positions {
			frame.Cells = append(frame.Cells, heatmap.Cell{
				Lon:     pos.Lon,
				Lat:     pos.Lat,
				Density: geo.RoundTo(stat.Mean(cells[pos], nil), 1),
			})
		}
		out.Frames = append(out.Frames, frame)
	}
	return out
}
