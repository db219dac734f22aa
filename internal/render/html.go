package render

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/aviamap/flyway-tools/internal/flyway"
	"github.com/aviamap/flyway-tools/internal/heatmap"
)

// PathsHTML writes an interactive scatter preview: density cells
// colored by aggregated density with the extracted waypoints and
// anchors overlaid as separate series.
func PathsHTML(doc *heatmap.Document, paths *flyway.PathDocument, outPath string) error {
	dens := flyway.Aggregate(doc.Frames)

	maxDensity := 0.0
	data := make([]opts.ScatterData, 0, len(dens))
	for key, d := range dens {
		if d > maxDensity {
			maxDensity = d
		}
		data = append(data, opts.ScatterData{Value: []interface{}{key.Lon(), key.Lat(), d}})
	}
	if maxDensity == 0 {
		maxDensity = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%s migration preview", paths.SpeciesName),
			Width:     "1200px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s migration paths", paths.SpeciesName),
			Subtitle: fmt.Sprintf("cells=%d flyways=%d", len(data), len(paths.Paths)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -180, Max: 180, Name: "Longitude"}),
		charts.WithYAxisOpts(opts.YAxis{Min: -90, Max: 90, Name: "Latitude"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxDensity),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#808080", "#FF8C00"}},
		}),
	)

	scatter.AddSeries("density", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	for i, fp := range paths.Paths {
		waypoints := make([]opts.ScatterData, 0, len(fp.Path))
		for _, wp := range fp.Path {
			waypoints = append(waypoints, opts.ScatterData{Value: []interface{}{wp[0], wp[1], maxDensity}})
		}
		scatter.AddSeries(fmt.Sprintf("flyway %d", i+1), waypoints,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

		anchors := []opts.ScatterData{
			{Value: []interface{}{fp.SouthPoint[0], fp.SouthPoint[1], maxDensity}},
			{Value: []interface{}{fp.NorthPoint[0], fp.NorthPoint[1], maxDensity}},
		}
		scatter.AddSeries(fmt.Sprintf("flyway %d anchors", i+1), anchors,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}))
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return f.Close()
}
