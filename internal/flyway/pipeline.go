package flyway

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aviamap/flyway-tools/internal/geo"
	"github.com/aviamap/flyway-tools/internal/heatmap"
)

// PathColor is the stroke color the front-end uses for migration paths.
const PathColor = "#8b0000"

// FlywayPath is one extracted migration path: the ordered waypoints
// plus the cluster's north and south anchor points. Coordinates are
// [lon, lat] pairs.
type FlywayPath struct {
	NorthPoint [2]float64   `json:"northPoint"`
	SouthPoint [2]float64   `json:"southPoint"`
	Path       [][2]float64 `json:"path"`
}

// PathDocument is the migration-path artifact written for the
// front-end, one FlywayPath per flyway.
type PathDocument struct {
	SpeciesName string       `json:"speciesName"`
	Color       string       `json:"color"`
	Paths       []FlywayPath `json:"paths"`
}

// Write stores the document pretty-printed; path files are small and
// are read by people as often as by the front-end.
func (d *PathDocument) Write(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode migration paths: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Options configures one pipeline invocation.
type Options struct {
	// SpeciesName overrides the heatmap's species name in the output.
	SpeciesName string
	// ExcludeRegions removes cells inside any rectangle before
	// normalisation.
	ExcludeRegions []geo.Rect
	// Cluster narrows flyway membership.
	Cluster ClusterOptions
	// Waypoints is the number of path waypoints per flyway (default 25).
	Waypoints int
	// SmoothWindow is the moving-average window (default 5).
	SmoothWindow int
	// RoundDigits rounds output coordinates (default 3).
	RoundDigits int
}

// BuildPaths runs the full pipeline over a heatmap document:
// aggregate, filter, normalise, cluster, then per cluster find
// extremes, build the path, smooth, and round. A heatmap whose frames
// aggregate to zero cells is a terminal failure.
func BuildPaths(doc *heatmap.Document, opts Options) (*PathDocument, error) {
	if opts.Waypoints == 0 {
		opts.Waypoints = DefaultWaypoints
	}
	if opts.SmoothWindow == 0 {
		opts.SmoothWindow = DefaultSmoothWindow
	}
	if opts.RoundDigits == 0 {
		opts.RoundDigits = 3
	}
	if opts.Cluster.Split == 0 {
		opts.Cluster.Split = DefaultLongitudeSplit
	}

	dens := Aggregate(doc.Frames)
	if len(dens) == 0 {
		return nil, ErrEmptyDensityMap
	}

	dens = FilterRegions(dens, opts.ExcludeRegions)
	if len(dens) == 0 {
		return nil, fmt.Errorf("%w: all cells excluded by region filters", ErrEmptyDensityMap)
	}
	dens = Normalize(dens)

	clusters := Cluster(dens, opts.Cluster)

	out := &PathDocument{
		SpeciesName: opts.SpeciesName,
		Color:       PathColor,
	}
	if out.SpeciesName == "" {
		out.SpeciesName = doc.SpeciesName
	}

	for _, cluster := range clusters {
		north, south, err := Extremes(cluster)
		if err != nil {
			// Cluster never emits an empty cluster.
			return nil, err
		}
		path := BuildPath(cluster, south, north, opts.Waypoints)
		path = SmoothPath(path, opts.SmoothWindow)

		fp := FlywayPath{
			NorthPoint: roundPair(north, opts.RoundDigits),
			SouthPoint: roundPair(south, opts.RoundDigits),
			Path:       make([][2]float64, len(path)),
		}
		for i, p := range path {
			fp.Path[i] = roundPair(p, opts.RoundDigits)
		}
		out.Paths = append(out.Paths, fp)
	}
	return out, nil
}

func roundPair(p geo.Point, digits int) [2]float64 {
	return [2]float64{geo.RoundTo(p.Lon, digits), geo.RoundTo(p.Lat, digits)}
}

// DeriveOutputPath maps a heatmap input path to the default migration
// output path by replacing a "_heatmap" stem suffix with "_migration"
// (barswa_heatmap.json -> barswa_migration.json). Inputs without the
// suffix get "_migration" appended to the stem.
func DeriveOutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stem = strings.TrimSuffix(stem, "_heatmap")
	return filepath.Join(dir, stem+"_migration"+ext)
}
