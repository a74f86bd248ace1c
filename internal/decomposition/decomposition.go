// Package decomposition implements classical additive seasonal decomposition
// with autocorrelation-based period detection.
package decomposition

import (
	"github.com/sirupsen/logrus"

	"github.com/pulseforge/tsengine/internal/statistics"
	"github.com/pulseforge/tsengine/pkg/errors"
	"github.com/pulseforge/tsengine/pkg/models"
)

const (
	// MinSamples is the minimum series length accepted by Decompose.
	MinSamples = 24

	maxCandidatePeriod = 365
)

// Decomposer extracts trend, seasonal and residual components from a series.
type Decomposer struct {
	logger *logrus.Logger
}

// NewDecomposer creates a new seasonal decomposer.
func NewDecomposer(logger *logrus.Logger) *Decomposer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Decomposer{logger: logger}
}

// Decompose splits the series into additive components. A seasonalPeriod of 0
// triggers autocorrelation-based period detection. The three output sequences
// have the same length as the input and reconstruct it exactly.
func (d *Decomposer) Decompose(data *models.TimeSeriesData, seasonalPeriod int) (*models.SeasonalDecomposition, error) {
	n := data.Len()
	if n < MinSamples {
		return nil, errors.NewInsufficientDataError("seasonal decomposition requires at least 24 data points")
	}

	period := seasonalPeriod
	if period <= 0 {
		period = d.detectSeasonalPeriod(data.Values)
		d.logger.WithFields(logrus.Fields{
			"detected_period": period,
			"data_points":     n,
		}).Debug("Detected seasonal period")
	}
	if period < 2 {
		period = 2
	}

	trend := centeredMovingAverage(data.Values, period)

	detrended := make([]float64, n)
	for i := range data.Values {
		detrended[i] = data.Values[i] - trend[i]
	}

	// Average detrended values at each seasonal position, then tile.
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		pattern[i%period] += v
		counts[i%period]++
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = pattern[i%period]
		residual[i] = data.Values[i] - trend[i] - seasonal[i]
	}

	return &models.SeasonalDecomposition{
		Trend:          trend,
		Seasonal:       seasonal,
		Residual:       residual,
		SeasonalPeriod: period,
		Strength:       seasonalStrength(seasonal, residual),
	}, nil
}

// detectSeasonalPeriod searches candidate periods from 2 to min(n/3, 365) and
// returns the lag with the highest autocorrelation.
func (d *Decomposer) detectSeasonalPeriod(values []float64) int {
	maxPeriod := len(values) / 3
	if maxPeriod > maxCandidatePeriod {
		maxPeriod = maxCandidatePeriod
	}
	if maxPeriod < 2 {
		return 2
	}

	acf := statistics.ACF(values, maxPeriod)
	bestPeriod := 2
	bestCorr := acf[2]
	for lag := 3; lag <= maxPeriod; lag++ {
		if acf[lag] > bestCorr {
			bestCorr = acf[lag]
			bestPeriod = lag
		}
	}

	return bestPeriod
}

// centeredMovingAverage smooths the series with a window of the given period.
// Edge windows shrink to the available samples instead of wrapping.
func centeredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	half := period / 2

	for i := 0; i < n; i++ {
		start := i - half
		if start < 0 {
			start = 0
		}
		end := i + half + 1
		if end > n {
			end = n
		}

		sum := 0.0
		for j := start; j < end; j++ {
			sum += values[j]
		}
		trend[i] = sum / float64(end-start)
	}

	return trend
}

// seasonalStrength is the share of non-trend variance explained by the
// seasonal component, in [0,1].
func seasonalStrength(seasonal, residual []float64) float64 {
	seasonalVar := variance(seasonal)
	residualVar := variance(residual)
	total := seasonalVar + residualVar
	if total == 0 {
		return 0
	}
	return seasonalVar / total
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return sum / float64(len(values))
}
