package decomposition

import (
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseforge/tsengine/pkg/errors"
	"github.com/pulseforge/tsengine/pkg/models"
)

func createWeeklyTimeSeries(n int) *models.TimeSeriesData {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	timestamps := make([]time.Time, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		timestamps[i] = start.AddDate(0, 0, i)
		values[i] = 50 + 0.05*float64(i) + 10*math.Sin(2*math.Pi*float64(i)/7)
	}
	return models.NewTimeSeriesData(timestamps, values)
}

func TestDecomposeReconstructsSeries(t *testing.T) {
	decomposer := NewDecomposer(logrus.New())
	data := createWeeklyTimeSeries(56)

	result, err := decomposer.Decompose(data, 7)
	require.NoError(t, err)
	require.NotNil(t, result)

	n := data.Len()
	require.Len(t, result.Trend, n)
	require.Len(t, result.Seasonal, n)
	require.Len(t, result.Residual, n)

	for i := 0; i < n; i++ {
		reconstructed := result.Trend[i] + result.Seasonal[i] + result.Residual[i]
		assert.InDelta(t, data.Values[i], reconstructed, 1e-9)
	}
}

func TestDecomposeDetectsWeeklyPeriod(t *testing.T) {
	decomposer := NewDecomposer(logrus.New())
	data := createWeeklyTimeSeries(70)

	result, err := decomposer.Decompose(data, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, result.SeasonalPeriod)
}

func TestDecomposeExplicitPeriod(t *testing.T) {
	decomposer := NewDecomposer(nil)
	data := createWeeklyTimeSeries(48)

	result, err := decomposer.Decompose(data, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, result.SeasonalPeriod)
}

func TestDecomposePeriodClampedToTwo(t *testing.T) {
	decomposer := NewDecomposer(nil)
	data := createWeeklyTimeSeries(30)

	result, err := decomposer.Decompose(data, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SeasonalPeriod)
}

func TestDecomposeInsufficientData(t *testing.T) {
	decomposer := NewDecomposer(nil)
	data := createWeeklyTimeSeries(23)

	result, err := decomposer.Decompose(data, 7)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientData(err))
}

func TestDecomposeSeasonalStrength(t *testing.T) {
	decomposer := NewDecomposer(nil)

	seasonal, err := decomposer.Decompose(createWeeklyTimeSeries(70), 7)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, seasonal.Strength, 0.0)
	assert.LessOrEqual(t, seasonal.Strength, 1.0)
	assert.Greater(t, seasonal.Strength, 0.5)

	// A constant series has no seasonal signal.
	n := 30
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	timestamps := make([]time.Time, n)
	values := make([]float64, n)
	for i := range values {
		timestamps[i] = start.AddDate(0, 0, i)
		values[i] = 42
	}
	flat, err := decomposer.Decompose(models.NewTimeSeriesData(timestamps, values), 7)
	require.NoError(t, err)
	assert.Equal(t, 0.0, flat.Strength)
}

func TestDecomposeSeasonalPatternTiles(t *testing.T) {
	decomposer := NewDecomposer(nil)
	data := createWeeklyTimeSeries(56)

	result, err := decomposer.Decompose(data, 7)
	require.NoError(t, err)

	for i := 7; i < data.Len(); i++ {
		assert.InDelta(t, result.Seasonal[i-7], result.Seasonal[i], 1e-12)
	}
}

func BenchmarkDecompose(b *testing.B) {
	decomposer := NewDecomposer(logrus.New())
	data := createWeeklyTimeSeries(365)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		decomposer.Decompose(data, 7)
	}
}
