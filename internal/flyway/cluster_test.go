package flyway

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestClusterSplitsAtLongitudeThreshold(t *testing.T) {
	m := DensityMap{
		KeyFor(-30, 10): 1,
		KeyFor(30, 10):  1,
	}

	clusters := Cluster(m, DefaultClusterOptions())
	require.Len(t, clusters, 2)

	// Western cluster first.
	assert.Contains(t, clusters[0], KeyFor(-30, 10))
	assert.Contains(t, clusters[1], KeyFor(30, 10))
}

func TestClusterBoundaryCellGoesEast(t *testing.T) {
	// Exactly -20 is not < -20, so it belongs to the eastern corridor.
	m := DensityMap{KeyFor(-20, 0): 1}
	clusters := Cluster(m, DefaultClusterOptions())
	require.Len(t, clusters, 1)
	assert.Contains(t, clusters[0], KeyFor(-20, 0))
}

func TestClusterEmptyMap(t *testing.T) {
	assert.Empty(t, Cluster(DensityMap{}, DefaultClusterOptions()))
}

func TestClusterOmitsEmptyClusters(t *testing.T) {
	m := DensityMap{KeyFor(-100, 40): 1}
	clusters := Cluster(m, DefaultClusterOptions())
	require.Len(t, clusters, 1)
	assert.Contains(t, clusters[0], KeyFor(-100, 40))
}

func TestClusterAmericasOnly(t *testing.T) {
	m := DensityMap{
		KeyFor(-30, 10): 1,
		KeyFor(30, 10):  1,
	}
	opts := DefaultClusterOptions()
	opts.AmericasOnly = true

	clusters := Cluster(m, opts)
	require.Len(t, clusters, 1)
	assert.Contains(t, clusters[0], KeyFor(-30, 10))
}

func TestClusterEuropeOnly(t *testing.T) {
	m := DensityMap{
		KeyFor(10, 50):  1, // inside the Europe box
		KeyFor(60, 50):  1, // east of the box
		KeyFor(10, 20):  1, // south of the box
		KeyFor(-30, 10): 1, // western corridor, unaffected
	}
	opts := DefaultClusterOptions()
	opts.EuropeOnly = true

	clusters := Cluster(m, opts)
	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0], 1)
	require.Len(t, clusters[1], 1)
	assert.Contains(t, clusters[1], KeyFor(10, 50))
}

func TestClusterEuropeBoxEdgesInclusive(t *testing.T) {
	m := DensityMap{
		KeyFor(-10, 35): 1,
		KeyFor(45, 72):  1,
	}
	opts := DefaultClusterOptions()
	opts.EuropeOnly = true

	clusters := Cluster(m, opts)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0], 2)
}

func TestClusterAfricaOnlySouth(t *testing.T) {
	m := DensityMap{
		KeyFor(20, -25): 1, // inside Africa's longitude band
		KeyFor(51, 5):   1, // on the band edge
		KeyFor(60, -25): 1, // east of the band
	}
	opts := DefaultClusterOptions()
	opts.AfricaOnlySouth = true

	clusters := Cluster(m, opts)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0], 2)
	assert.NotContains(t, clusters[0], KeyFor(60, -25))
}

func TestClusterAmericasSouthLimit(t *testing.T) {
	m := DensityMap{
		KeyFor(-60, -40): 1,
		KeyFor(-60, -35): 1, // exactly at the limit: kept
		KeyFor(-60, 10):  1,
	}
	opts := DefaultClusterOptions()
	opts.AmericasSouthLimit = floatPtr(-35)

	clusters := Cluster(m, opts)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0], 2)
	assert.NotContains(t, clusters[0], KeyFor(-60, -40))
}

func TestExtremes(t *testing.T) {
	m := DensityMap{
		KeyFor(0, 5):  1,
		KeyFor(0, -5): 1,
		KeyFor(0, 0):  1,
	}

	north, south, err := Extremes(m)
	require.NoError(t, err)
	assert.Equal(t, 5.0, north.Lat)
	assert.Equal(t, 0.0, north.Lon)
	assert.Equal(t, -5.0, south.Lat)
	assert.Equal(t, 0.0, south.Lon)
}

func TestExtremesTrueMinMax(t *testing.T) {
	m := DensityMap{
		KeyFor(12, 61.5):  0.4,
		KeyFor(-8, -33.5): 0.1,
		KeyFor(3, 14.5):   1.0,
		KeyFor(30, 47.5):  0.9,
	}

	north, south, err := Extremes(m)
	require.NoError(t, err)

	for key := range m {
		assert.LessOrEqual(t, key.Lat(), north.Lat)
		assert.GreaterOrEqual(t, key.Lat(), south.Lat)
	}
}

func TestExtremesTieBreaksOnLongitude(t *testing.T) {
	m := DensityMap{
		KeyFor(10, 50): 1,
		KeyFor(-5, 50): 1,
		KeyFor(3, 50):  1,
	}

	north, south, err := Extremes(m)
	require.NoError(t, err)
	assert.Equal(t, -5.0, north.Lon)
	assert.Equal(t, -5.0, south.Lon)
}

func TestExtremesEmptyCluster(t *testing.T) {
	_, _, err := Extremes(DensityMap{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyCluster))
}
