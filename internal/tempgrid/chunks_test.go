package tempgrid

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodFor(t *testing.T) {
	cases := []struct {
		date, want string
	}{
		{"2023-01-01", "2023-01-A"},
		{"2023-01-15", "2023-01-A"},
		{"2023-01-16", "2023-01-B"},
		{"2023-12-31", "2023-12-B"},
	}
	for _, tc := range cases {
		got, err := PeriodFor(tc.date)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "date %s", tc.date)
	}
}

func TestPeriodForRejectsBadDates(t *testing.T) {
	for _, date := range []string{"", "2023-01", "2023-01-99"} {
		_, err := PeriodFor(date)
		assert.Error(t, err, "date %q", date)
	}
}

func TestWriteChunks(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "temp_chunks")
	samples := []Sample{
		{Date: "2023-01-02", Lat: 50, Lon: 10, TempC: -4},
		{Date: "2023-01-02", Lat: 51, Lon: 11, TempC: -5},
		{Date: "2023-01-14", Lat: 50, Lon: 10, TempC: -2},
		{Date: "2023-01-20", Lat: 50, Lon: 190, TempC: 1}, // lon wraps to -170
		{Date: "2023-02-03", Lat: 50, Lon: 10, TempC: 0},
	}

	manifest, err := WriteChunks(samples, outDir)
	require.NoError(t, err)

	require.Len(t, manifest.Chunks, 3)
	assert.Equal(t, 3, manifest.TotalPeriods)
	assert.Equal(t, "2023-01-A", manifest.DateRange.Start)
	assert.Equal(t, "2023-02-A", manifest.DateRange.End)

	// Chunks are sorted by period.
	assert.Equal(t, "2023-01-A", manifest.Chunks[0].Period)
	assert.Equal(t, "2023-01-B", manifest.Chunks[1].Period)
	assert.Equal(t, "2023-02-A", manifest.Chunks[2].Period)

	first := manifest.Chunks[0]
	assert.Equal(t, "2023-01-02", first.StartDate)
	assert.Equal(t, "2023-01-14", first.EndDate)
	assert.Equal(t, 2, first.Days)
	assert.Equal(t, filepath.Join("temp_chunks", "temp_chunk_2023-01-A.json"), first.File)

	data, err := os.ReadFile(filepath.Join(outDir, "temp_chunk_2023-01-A.json"))
	require.NoError(t, err)

	var chunk Chunk
	require.NoError(t, json.Unmarshal(data, &chunk))
	assert.Equal(t, "2023-01-A", chunk.Period)
	require.Len(t, chunk.Days, 2)
	assert.Equal(t, "2023-01-02", chunk.Days[0].Date)
	assert.Len(t, chunk.Days[0].Points, 2)

	// Longitude normalization shows up in the B chunk.
	data, err = os.ReadFile(filepath.Join(outDir, "temp_chunk_2023-01-B.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &chunk))
	require.Len(t, chunk.Days, 1)
	require.Len(t, chunk.Days[0].Points, 1)
	assert.Equal(t, -170.0, chunk.Days[0].Points[0].Lon)
}

func TestWriteChunksReplacesOldDirectory(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "temp_chunks")
	require.NoError(t, os.MkdirAll(outDir, 0755))
	stale := filepath.Join(outDir, "temp_chunk_1999-01-A.json")
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0644))

	_, err := WriteChunks([]Sample{{Date: "2023-01-01", Lat: 0, Lon: 0, TempC: 0}}, outDir)
	require.NoError(t, err)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteChunksEmptyInput(t *testing.T) {
	_, err := WriteChunks(nil, filepath.Join(t.TempDir(), "chunks"))
	require.Error(t, err)
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp_chunks_manifest.json")
	m := &Manifest{
		TotalPeriods: 1,
		DateRange:    DateRange{Start: "2023-01-A", End: "2023-01-A"},
		Chunks: []ManifestEntry{{
			Period: "2023-01-A",
			File:   "temp_chunks/temp_chunk_2023-01-A.json",
			Days:   15,
		}},
	}

	require.NoError(t, WriteManifest(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *m, got)
	assert.Contains(t, string(data), "\n  \"chunks\"")
}
