// Package trend implements regression-based trend analysis with change-point
// detection via sliding-window mean comparison.
package trend

import (
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/pulseforge/tsengine/internal/statistics"
	"github.com/pulseforge/tsengine/pkg/errors"
	"github.com/pulseforge/tsengine/pkg/models"
)

const (
	// significanceLevel is the p-value above which a slope is considered
	// statistically indistinguishable from no trend.
	significanceLevel = 0.05

	// changePointMultiplier scales the series' standard deviation into the
	// mean-shift threshold.
	changePointMultiplier = 2.0
)

// Analyzer classifies the overall direction of a series and locates mean
// shifts.
type Analyzer struct {
	logger *logrus.Logger
}

// NewAnalyzer creates a trend analyzer.
func NewAnalyzer(logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Analyzer{logger: logger}
}

// AnalyzeTrend regresses values on index position and derives direction,
// significance and change points. The requested confidence level is echoed
// back in the result. At least 3 samples are required for the slope t-test.
func (a *Analyzer) AnalyzeTrend(data *models.TimeSeriesData, confidenceLevel float64) (*models.TrendAnalysis, error) {
	n := data.Len()
	if n < 3 {
		return nil, errors.NewInsufficientDataError("trend analysis requires at least 3 data points")
	}
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		confidenceLevel = 0.95
	}

	reg := statistics.LinearRegression(data.Values)

	return &models.TrendAnalysis{
		Slope:          reg.Slope,
		PValue:         reg.PValue,
		Confidence:     confidenceLevel,
		TrendDirection: ClassifyDirection(reg.Slope, reg.PValue),
		ChangePoints:   a.detectChangePoints(data.Values),
	}, nil
}

// ClassifyDirection maps a slope and its significance to a direction. An
// insignificant slope is stable regardless of sign; a significant slope of
// exactly zero is volatile.
func ClassifyDirection(slope, pValue float64) models.TrendDirection {
	if pValue > significanceLevel {
		return models.TrendStable
	}
	switch {
	case slope > 0:
		return models.TrendIncreasing
	case slope < 0:
		return models.TrendDecreasing
	default:
		return models.TrendVolatile
	}
}

// detectChangePoints scans with a window of max(5, n/10) and reports every
// index where the pre/post window means differ by more than a multiple of the
// series' standard deviation. Contiguous runs are reported individually.
func (a *Analyzer) detectChangePoints(values []float64) []int {
	n := len(values)
	window := n / 10
	if window < 5 {
		window = 5
	}
	if n < 2*window {
		return nil
	}

	threshold := changePointMultiplier * statistics.StdDev(values)
	if threshold == 0 {
		return nil
	}

	var changePoints []int
	for i := window; i <= n-window; i++ {
		before := stat.Mean(values[i-window:i], nil)
		after := stat.Mean(values[i:i+window], nil)
		if math.Abs(after-before) > threshold {
			changePoints = append(changePoints, i)
		}
	}
	return changePoints
}
