// Package render produces quick visual previews of generated
// datasets so a bad extraction is caught before the files ship to the
// front-end.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/aviamap/flyway-tools/internal/flyway"
	"github.com/aviamap/flyway-tools/internal/heatmap"
)

// PathsPNG draws the aggregated density cells as a scatter with each
// extracted path overlaid as a line, one color per flyway.
func PathsPNG(doc *heatmap.Document, paths *flyway.PathDocument, outPath string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s migration paths", paths.SpeciesName)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	dens := flyway.Aggregate(doc.Frames)
	cellPts := make(plotter.XYs, 0, len(dens))
	for key := range dens {
		cellPts = append(cellPts, plotter.XY{X: key.Lon(), Y: key.Lat()})
	}
	if len(cellPts) > 0 {
		cells, err := plotter.NewScatter(cellPts)
		if err != nil {
			return fmt.Errorf("density scatter: %w", err)
		}
		cells.GlyphStyle.Color = color.RGBA{R: 160, G: 160, B: 160, A: 120}
		cells.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(cells)
		p.Legend.Add("density cells", cells)
	}

	colors := generateColors(len(paths.Paths))
	for i, fp := range paths.Paths {
		pts := make(plotter.XYs, len(fp.Path))
		for j, wp := range fp.Path {
			pts[j] = plotter.XY{X: wp[0], Y: wp[1]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("path line %d: %w", i, err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("flyway %d", i+1), line)

		anchors, err := plotter.NewScatter(plotter.XYs{
			{X: fp.SouthPoint[0], Y: fp.SouthPoint[1]},
			{X: fp.NorthPoint[0], Y: fp.NorthPoint[1]},
		})
		if err != nil {
			return fmt.Errorf("anchor scatter %d: %w", i, err)
		}
		anchors.GlyphStyle.Color = colors[i]
		anchors.GlyphStyle.Radius = vg.Points(4)
		p.Add(anchors)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(12*vg.Inch, 7*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save preview: %w", err)
	}
	return nil
}

// generateColors creates a palette of distinct colors for path lines.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.4)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
