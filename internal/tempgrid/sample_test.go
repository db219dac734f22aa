package tempgrid

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadAll(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "temps.csv",
		"date,lat,lon,temp_c\n2023-01-01,49.5,-110.25,-12.3\n2023-01-02,49.5,-110.25,-8.1\n")

	samples, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, Sample{Date: "2023-01-01", Lat: 49.5, Lon: -110.25, TempC: -12.3}, samples[0])
}

func TestReadAllEmptyBody(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "temps.csv", "date,lat,lon,temp_c\n")

	samples, err := ReadAll(path)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestReadAllMissingFile(t *testing.T) {
	_, err := ReadAll(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestWriteAtomicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	in := []Sample{
		{Date: "2024-06-01", Lat: 51, Lon: -114, TempC: 18.5},
		{Date: "2024-06-02", Lat: 51, Lon: -114, TempC: 21},
	}

	require.NoError(t, WriteAtomic(path, in))

	got, err := ReadAll(path)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteAtomicReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "out.csv", "date,lat,lon,temp_c\n2020-01-01,0,0,0\n")

	require.NoError(t, WriteAtomic(path, []Sample{{Date: "2024-01-01", Lat: 1, Lon: 2, TempC: 3}}))

	got, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-01", got[0].Date)
}

func TestCombine(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "2023.csv",
		"date,lat,lon,temp_c\n2023-01-01,10,20,5.5\n2023-01-02,10,20,6.0\n")
	b := writeCSV(t, dir, "2024.csv",
		"date,lat,lon,temp_c\n2024-01-01,10,20,4.5\n")
	out := filepath.Join(dir, "combined.csv")

	counts, err := Combine([]string{a, b}, out)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, counts)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,lat,lon,temp_c", lines[0])

	// Inputs stack in order, values copied verbatim.
	assert.Equal(t, "2023-01-01,10,20,5.5", lines[1])
	assert.Equal(t, "2024-01-01,10,20,4.5", lines[3])
}

func TestCombineMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "combined.csv")

	_, err := Combine([]string{filepath.Join(dir, "absent.csv")}, out)
	require.Error(t, err)
}
