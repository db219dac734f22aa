package heatmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellMarshalJSON(t *testing.T) {
	data, err := Cell{Lon: -110.5, Lat: 50.5, Density: 0.8}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "[-110.5,50.5,0.8]", string(data))
}

func TestCellUnmarshalJSON(t *testing.T) {
	var c Cell
	require.NoError(t, c.UnmarshalJSON([]byte("[-110.5,50.5,0.8]")))
	assert.Equal(t, Cell{Lon: -110.5, Lat: 50.5, Density: 0.8}, c)

	// Extra elements are ignored.
	require.NoError(t, c.UnmarshalJSON([]byte("[1,2,3,99]")))
	assert.Equal(t, Cell{Lon: 1, Lat: 2, Density: 3}, c)

	assert.Error(t, c.UnmarshalJSON([]byte("[1,2]")))
	assert.Error(t, c.UnmarshalJSON([]byte(`{"lon":1}`)))
}

func TestDocumentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cangoo_heatmap.json")
	doc := &Document{
		ColorGradient: ColorGradient{Min: GradientMin, Max: GradientMax},
		Frames: []Frame{
			{Week: "2023-05-01", Cells: []Cell{{Lon: -110.5, Lat: 50.5, Density: 3}}},
		},
		SpeciesName: "Canada Goose",
	}

	require.NoError(t, doc.Write(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `[-110.5,50.5,3]`)
	assert.NotContains(t, string(data), "\n ")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
