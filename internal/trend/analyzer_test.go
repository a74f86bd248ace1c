package trend

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseforge/tsengine/pkg/errors"
	"github.com/pulseforge/tsengine/pkg/models"
)

func createSeries(values []float64) *models.TimeSeriesData {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = start.AddDate(0, 0, i)
	}
	return models.NewTimeSeriesData(timestamps, values)
}

func TestAnalyzeTrendIncreasing(t *testing.T) {
	analyzer := NewAnalyzer(logrus.New())

	values := make([]float64, 30)
	for i := range values {
		values[i] = 2 * float64(i)
	}

	result, err := analyzer.AnalyzeTrend(createSeries(values), 0.95)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, models.TrendIncreasing, result.TrendDirection)
	assert.InDelta(t, 2.0, result.Slope, 1e-9)
	assert.Equal(t, 0.0, result.PValue)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Empty(t, result.ChangePoints)
}

func TestAnalyzeTrendDecreasing(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	values := make([]float64, 30)
	for i := range values {
		values[i] = 100 - 1.5*float64(i)
	}

	result, err := analyzer.AnalyzeTrend(createSeries(values), 0.95)
	require.NoError(t, err)
	assert.Equal(t, models.TrendDecreasing, result.TrendDirection)
	assert.InDelta(t, -1.5, result.Slope, 1e-9)
}

func TestAnalyzeTrendStable(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	values := make([]float64, 20)
	for i := range values {
		values[i] = 50
	}

	result, err := analyzer.AnalyzeTrend(createSeries(values), 0.95)
	require.NoError(t, err)
	assert.Equal(t, models.TrendStable, result.TrendDirection)
	assert.InDelta(t, 0.0, result.Slope, 1e-12)
	assert.Equal(t, 1.0, result.PValue)
}

func TestAnalyzeTrendConfidenceFallback(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	values := make([]float64, 10)
	for i := range values {
		values[i] = float64(i)
	}

	result, err := analyzer.AnalyzeTrend(createSeries(values), 0)
	require.NoError(t, err)
	assert.Equal(t, 0.95, result.Confidence)

	result, err = analyzer.AnalyzeTrend(createSeries(values), 1.2)
	require.NoError(t, err)
	assert.Equal(t, 0.95, result.Confidence)
}

func TestAnalyzeTrendInsufficientData(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	result, err := analyzer.AnalyzeTrend(createSeries([]float64{1, 2}), 0.95)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientData(err))
}

func TestClassifyDirection(t *testing.T) {
	assert.Equal(t, models.TrendStable, ClassifyDirection(5, 0.2))
	assert.Equal(t, models.TrendIncreasing, ClassifyDirection(2, 0.01))
	assert.Equal(t, models.TrendDecreasing, ClassifyDirection(-2, 0.01))
	assert.Equal(t, models.TrendVolatile, ClassifyDirection(0, 0.01))
}

func TestDetectChangePointsMeanShift(t *testing.T) {
	analyzer := NewAnalyzer(logrus.New())

	// 25 samples at the base level, then a jump for the last 5.
	values := make([]float64, 30)
	for i := 25; i < 30; i++ {
		values[i] = 100
	}

	result, err := analyzer.AnalyzeTrend(createSeries(values), 0.95)
	require.NoError(t, err)
	assert.Equal(t, []int{24, 25}, result.ChangePoints)
}

func TestDetectChangePointsShortSeries(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	// Too short for two windows, so no change points are reported.
	result, err := analyzer.AnalyzeTrend(createSeries([]float64{1, 9, 1, 9, 1, 9}), 0.95)
	require.NoError(t, err)
	assert.Empty(t, result.ChangePoints)
}
