package flyway

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviamap/flyway-tools/internal/geo"
	"github.com/aviamap/flyway-tools/internal/heatmap"
)

func twoCorridorDoc() *heatmap.Document {
	// A western band from -30S to 40N and an eastern band from 10S to
	// 55N, each with a spine of dense cells.
	var cells []heatmap.Cell
	for lat := -30.0; lat <= 40; lat += 2 {
		cells = append(cells, heatmap.Cell{Lon: -65, Lat: lat, Density: 0.8})
	}
	for lat := -10.0; lat <= 55; lat += 2 {
		cells = append(cells, heatmap.Cell{Lon: 15, Lat: lat, Density: 0.6})
	}
	return &heatmap.Document{
		SpeciesName: "Barn Swallow",
		Frames:      []heatmap.Frame{{Week: "2024-03-04", Cells: cells}},
	}
}

func TestBuildPathsTwoFlyways(t *testing.T) {
	doc := twoCorridorDoc()

	out, err := BuildPaths(doc, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Barn Swallow", out.SpeciesName)
	assert.Equal(t, PathColor, out.Color)
	require.Len(t, out.Paths, 2)

	// Western flyway first.
	western := out.Paths[0]
	assert.Less(t, western.NorthPoint[0], DefaultLongitudeSplit)
	assert.Equal(t, 40.0, western.NorthPoint[1])
	assert.Equal(t, -30.0, western.SouthPoint[1])
	require.Len(t, western.Path, DefaultWaypoints)

	// Smoothing averages the anchors with their neighbours, so the
	// endpoints sit near, not on, the extremes.
	assert.InDelta(t, western.SouthPoint[1], western.Path[0][1], 6)
	assert.InDelta(t, western.NorthPoint[1], western.Path[len(western.Path)-1][1], 6)
	for i := 1; i < len(western.Path); i++ {
		assert.GreaterOrEqual(t, western.Path[i][1], western.Path[i-1][1],
			"waypoints must march north")
	}

	eastern := out.Paths[1]
	assert.Equal(t, 54.0, eastern.NorthPoint[1])
	assert.Equal(t, -10.0, eastern.SouthPoint[1])
}

func TestBuildPathsSpeciesNameOverride(t *testing.T) {
	doc := twoCorridorDoc()

	out, err := BuildPaths(doc, Options{SpeciesName: "Hirundo rustica"})
	require.NoError(t, err)
	assert.Equal(t, "Hirundo rustica", out.SpeciesName)
}

func TestBuildPathsRoundsCoordinates(t *testing.T) {
	doc := &heatmap.Document{
		Frames: []heatmap.Frame{{Week: "2024-01-01", Cells: []heatmap.Cell{
			{Lon: -65.123456, Lat: -10.987654, Density: 1},
			{Lon: -64.555555, Lat: 20.111111, Density: 1},
		}}},
	}

	out, err := BuildPaths(doc, Options{})
	require.NoError(t, err)
	require.Len(t, out.Paths, 1)

	check := func(pair [2]float64) {
		for _, v := range pair {
			assert.Equal(t, geo.RoundTo(v, 3), v)
		}
	}
	check(out.Paths[0].NorthPoint)
	check(out.Paths[0].SouthPoint)
	for _, p := range out.Paths[0].Path {
		check(p)
	}
}

func TestBuildPathsEmptyHeatmap(t *testing.T) {
	_, err := BuildPaths(&heatmap.Document{}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyDensityMap))
}

func TestBuildPathsAllCellsExcluded(t *testing.T) {
	doc := &heatmap.Document{
		Frames: []heatmap.Frame{{Week: "2024-01-01", Cells: []heatmap.Cell{
			{Lon: 170, Lat: -40, Density: 1},
		}}},
	}

	_, err := BuildPaths(doc, Options{ExcludeRegions: []geo.Rect{NewZealandRegion}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyDensityMap))
}

func TestBuildPathsAmericasOnly(t *testing.T) {
	doc := twoCorridorDoc()

	out, err := BuildPaths(doc, Options{Cluster: ClusterOptions{AmericasOnly: true}})
	require.NoError(t, err)
	require.Len(t, out.Paths, 1)
	assert.Less(t, out.Paths[0].NorthPoint[0], DefaultLongitudeSplit)
}

func TestPathDocumentWrite(t *testing.T) {
	doc := &PathDocument{
		SpeciesName: "Barn Swallow",
		Color:       PathColor,
		Paths: []FlywayPath{{
			NorthPoint: [2]float64{-65, 40},
			SouthPoint: [2]float64{-65, -30},
			Path:       [][2]float64{{-65, -30}, {-65, 40}},
		}},
	}

	path := filepath.Join(t.TempDir(), "barswa_migration.json")
	require.NoError(t, doc.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got PathDocument
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, doc.SpeciesName, got.SpeciesName)
	assert.Equal(t, doc.Paths, got.Paths)

	// Pretty-printed output.
	assert.Contains(t, string(data), "\n  \"speciesName\"")
}

func TestDeriveOutputPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"barswa_heatmap.json", "barswa_migration.json"},
		{"data/barswa_heatmap.json", filepath.Join("data", "barswa_migration.json")},
		{"comcuc.json", "comcuc_migration.json"},
		{"barswa_heatmap_averaged.json", "barswa_heatmap_averaged_migration.json"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveOutputPath(tc.in), "input %q", tc.in)
	}
}
