package anomaly

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func createSpikeSeries(n, spikeIndex int, base, spike float64) *models.TimeSeriesData {
	values := make([]float64, n)
	for i := range values {
		values[i] = base + 0.1*float64(i%5)
	}
	values[spikeIndex] = spike
	return createSeries(values)
}

func TestDetectZScoreSpike(t *testing.T) {
	detector := NewDetector(nil, logrus.New())
	data := createSeries([]float64{10, 10, 10, 10, 10, 100, 10, 10, 10, 10})

	result := detector.Detect(data, MethodZScore, 2.0)
	require.NotNil(t, result)
	assert.Equal(t, MethodZScore, result.Method)
	assert.Equal(t, 2.0, result.Threshold)
	assert.Equal(t, []int{5}, result.Anomalies)
	require.Len(t, result.Scores, data.Len())
	assert.InDelta(t, 3.0, result.Scores[5], 1e-9)
}

func TestDetectDefaultThreshold(t *testing.T) {
	detector := NewDetector(nil, nil)
	data := createSeries([]float64{10, 10, 10, 10, 10, 100, 10, 10, 10, 10})

	result := detector.Detect(data, MethodZScore, 0)
	assert.Equal(t, DefaultThreshold, result.Threshold)
	assert.Equal(t, []int{5}, result.Anomalies)
}

func TestDetectUnknownMethodFallsBackToZScore(t *testing.T) {
	detector := NewDetector(nil, logrus.New())
	data := createSeries([]float64{10, 10, 10, 10, 10, 100, 10, 10, 10, 10})

	result := detector.Detect(data, "spectral", 2.0)
	assert.Equal(t, MethodZScore, result.Method)

	reference := detector.Detect(data, MethodZScore, 2.0)
	assert.Equal(t, reference.Scores, result.Scores)
}

func TestDetectConstantSeries(t *testing.T) {
	detector := NewDetector(nil, nil)
	data := createSeries([]float64{7, 7, 7, 7, 7, 7, 7, 7})

	for _, method := range []string{MethodZScore, MethodIQR, MethodStatistical} {
		result := detector.Detect(data, method, 2.0)
		assert.Empty(t, result.Anomalies, "method %s", method)
		for _, score := range result.Scores {
			assert.Equal(t, 0.0, score, "method %s", method)
		}
	}
}

func TestDetectIQR(t *testing.T) {
	detector := NewDetector(nil, nil)

	values := make([]float64, 21)
	for i := 0; i < 20; i++ {
		values[i] = float64(i + 1)
	}
	values[20] = 100
	data := createSeries(values)

	result := detector.Detect(data, MethodIQR, 2.0)
	assert.Equal(t, MethodIQR, result.Method)
	assert.Equal(t, []int{20}, result.Anomalies)

	// In-fence samples score exactly zero.
	for i := 0; i < 20; i++ {
		assert.Equal(t, 0.0, result.Scores[i])
	}
	assert.Greater(t, result.Scores[20], 2.0)
}

func TestDetectIsolationForest(t *testing.T) {
	detector := NewDetector(nil, logrus.New())
	data := createSpikeSeries(50, 25, 10, 100)

	result := detector.Detect(data, MethodIsolationForest, 2.0)
	assert.Equal(t, MethodIsolationForest, result.Method)
	require.Len(t, result.Scores, 50)

	// The spike isolates in fewer splits and scores above the bulk.
	assert.Greater(t, result.Scores[25], result.Scores[0])
	assert.Greater(t, result.Scores[25], result.Scores[49])
}

func TestDetectIsolationForestDeterministic(t *testing.T) {
	config := DefaultConfig()
	config.Seed = 42
	data := createSpikeSeries(40, 10, 5, 60)

	first := NewDetector(config, nil).Detect(data, MethodIsolationForest, 2.0)
	second := NewDetector(config, nil).Detect(data, MethodIsolationForest, 2.0)
	assert.Equal(t, first.Scores, second.Scores)
}

func TestDetectSlidingWindow(t *testing.T) {
	detector := NewDetector(nil, nil)

	values := make([]float64, 101)
	for i := range values {
		values[i] = 10
	}
	values[50] = 100
	data := createSeries(values)

	result := detector.Detect(data, MethodStatistical, 2.0)
	assert.Equal(t, MethodStatistical, result.Method)
	assert.Equal(t, []int{50}, result.Anomalies)
}

func TestDetectShortSeries(t *testing.T) {
	detector := NewDetector(nil, nil)
	data := createSeries([]float64{5})

	for _, method := range []string{MethodZScore, MethodIQR, MethodIsolationForest, MethodStatistical} {
		result := detector.Detect(data, method, 2.0)
		require.Len(t, result.Scores, 1, "method %s", method)
		assert.Empty(t, result.Anomalies, "method %s", method)
	}
}

func BenchmarkDetectIsolationForest(b *testing.B) {
	detector := NewDetector(nil, logrus.New())
	data := createSpikeSeries(500, 250, 10, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		detector.Detect(data, MethodIsolationForest, 2.0)
	}
}
