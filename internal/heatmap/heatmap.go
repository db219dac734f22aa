// Package heatmap defines the weekly density heatmap documents shared
// between the data-preparation tools and the visualization front-end,
// and builds them from raw observation records.
package heatmap

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default color gradient endpoints for rendered heatmaps: grey through
// saturated orange.
const (
	GradientMin = "#808080"
	GradientMax = "#FF8C00"
)

// Cell is one grid cell: the cell-center longitude and latitude plus
// the accumulated density. On the wire it is a bare three-element
// array, [lon, lat, density].
type Cell struct {
	Lon     float64
	Lat     float64
	Density float64
}

// MarshalJSON encodes the cell as [lon, lat, density].
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{c.Lon, c.Lat, c.Density})
}

// UnmarshalJSON decodes a [lon, lat, density] array. Longer arrays are
// tolerated; extra elements are ignored.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) < 3 {
		return fmt.Errorf("heatmap cell needs 3 elements, got %d", len(arr))
	}
	c.Lon, c.Lat, c.Density = arr[0], arr[1], arr[2]
	return nil
}

// Frame is the set of cells observed in one week. Week is the ISO date
// of the week start (a Monday).
type Frame struct {
	Week  string `json:"week"`
	Cells []Cell `json:"cells"`
}

// ColorGradient names the colors the front-end interpolates between.
type ColorGradient struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Document is a heatmap file: an ordered list of weekly frames plus
// rendering metadata.
type Document struct {
	ColorGradient ColorGradient `json:"colorGradient"`
	Frames        []Frame       `json:"frames"`
	SpeciesName   string        `json:"speciesName,omitempty"`
}

// Load reads a heatmap document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read heatmap: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse heatmap %s: %w", path, err)
	}
	return &doc, nil
}

// Write stores the document as compact JSON. Heatmaps are the largest
// derived artifacts, so they are never pretty-printed.
func (d *Document) Write(path string) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode heatmap: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
