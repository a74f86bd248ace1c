// Package forecast implements the forecasting engine: six interchangeable
// strategies sharing one result contract, dispatched over a closed model
// union.
package forecast

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/pulseforge/tsengine/internal/decomposition"
	"github.com/pulseforge/tsengine/internal/statistics"
	"github.com/pulseforge/tsengine/pkg/errors"
	"github.com/pulseforge/tsengine/pkg/models"
)

const (
	// MinSamples is the minimum series length accepted for forecasting.
	MinSamples = 10

	// MaxHorizon bounds the number of forecast steps.
	MaxHorizon = 100

	// DefaultConfidenceLevel is used when the caller passes a level outside
	// (0,1).
	DefaultConfidenceLevel = 0.95
)

// Config contains tuning parameters for the forecaster.
type Config struct {
	ConfidenceLevel float64 `json:"confidence_level" mapstructure:"confidence_level"`
	SmoothingFactor float64 `json:"smoothing_factor" mapstructure:"smoothing_factor"`
}

// DefaultConfig returns the forecaster defaults.
func DefaultConfig() *Config {
	return &Config{
		ConfidenceLevel: DefaultConfidenceLevel,
		SmoothingFactor: 0.3,
	}
}

// Forecaster produces forward predictions with confidence intervals for a
// series. It is stateless between calls and safe for concurrent use with
// distinct inputs.
type Forecaster struct {
	logger     *logrus.Logger
	config     *Config
	decomposer *decomposition.Decomposer
}

// NewForecaster creates a forecaster. A nil config uses DefaultConfig.
func NewForecaster(config *Config, logger *logrus.Logger) *Forecaster {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Forecaster{
		logger:     logger,
		config:     config,
		decomposer: decomposition.NewDecomposer(logger),
	}
}

// Forecast predicts horizon future values of the series using the given
// model. A confidenceLevel outside (0,1) uses the configured default.
// Cancellation is cooperative at the granularity of the whole call.
func (f *Forecaster) Forecast(ctx context.Context, data *models.TimeSeriesData, model Model, horizon int, confidenceLevel float64) (*models.ForecastResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := data.Len()
	if n < MinSamples {
		return nil, errors.NewInsufficientDataError("forecasting requires at least 10 data points")
	}
	if horizon < 1 || horizon > MaxHorizon {
		return nil, errors.NewInvalidInputError("forecast horizon must be between 1 and 100")
	}
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		confidenceLevel = f.config.ConfidenceLevel
	}

	var (
		predictions []float64
		residuals   []float64
		err         error
	)

	switch model.Kind {
	case KindAutoregressive:
		predictions, residuals = f.autoregressive(data.Values, model.Order, horizon)
	case KindMovingAverage:
		predictions, residuals, err = f.movingAverage(data.Values, model.Order, horizon)
	case KindARIMA:
		predictions, residuals, err = f.arima(data.Values, model.P, model.D, horizon)
	case KindExponentialSmoothing:
		predictions, residuals = f.exponentialSmoothing(data.Values, horizon)
	case KindSeasonalDecomposition:
		predictions, residuals, err = f.seasonal(data, horizon)
	case KindProphetLike:
		predictions, residuals, err = f.prophetLike(data, horizon)
	default:
		err = errors.NewInvalidInputError("unknown forecast model " + string(model.Kind))
	}
	if err != nil {
		return nil, err
	}

	accuracy := forecastAccuracy(data.Values, residuals)
	intervals := confidenceIntervals(predictions, residuals, confidenceLevel)

	f.logger.WithFields(logrus.Fields{
		"model":       model.String(),
		"horizon":     horizon,
		"data_points": n,
		"accuracy":    accuracy,
	}).Debug("Generated forecast")

	return &models.ForecastResult{
		Predictions:         predictions,
		ConfidenceIntervals: intervals,
		Timestamps:          forecastTimestamps(data.LastTimestamp(), horizon),
		Model:               model.String(),
		Accuracy:            accuracy,
		Residuals:           residuals,
	}, nil
}

// autoregressive fits AR coefficients via Yule-Walker and forecasts
// recursively: each prediction is appended to the working series and feeds
// the lag window of the next step.
func (f *Forecaster) autoregressive(values []float64, order, horizon int) ([]float64, []float64) {
	n := len(values)
	if order < 1 {
		order = 1
	}
	if order >= n {
		order = n - 1
	}

	coeffs := statistics.YuleWalker(values, order)
	mean := stat.Mean(values, nil)

	residuals := make([]float64, 0, n-order)
	for t := order; t < n; t++ {
		pred := mean
		for j, phi := range coeffs {
			pred += phi * (values[t-1-j] - mean)
		}
		residuals = append(residuals, values[t]-pred)
	}

	working := make([]float64, n, n+horizon)
	copy(working, values)

	predictions := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		pred := mean
		for j, phi := range coeffs {
			pred += phi * (working[len(working)-1-j] - mean)
		}
		predictions[h] = pred
		working = append(working, pred)
	}

	return predictions, residuals
}

// movingAverage forecasts the mean of the last order observations, repeated
// across the horizon. Residuals are the in-sample moving-average errors at
// each interior point.
func (f *Forecaster) movingAverage(values []float64, order, horizon int) ([]float64, []float64, error) {
	n := len(values)
	if order < 1 {
		order = 1
	}
	if order > n {
		return nil, nil, errors.NewInvalidInputError("moving average order exceeds series length")
	}

	level := stat.Mean(values[n-order:], nil)
	predictions := make([]float64, horizon)
	for h := range predictions {
		predictions[h] = level
	}

	residuals := make([]float64, 0, n-order)
	for t := order; t < n; t++ {
		residuals = append(residuals, values[t]-stat.Mean(values[t-order:t], nil))
	}

	return predictions, residuals, nil
}

// arima differences the series d times, fits an AR(p) model to the
// differenced series, forecasts recursively and integrates back seeded from
// the observed values.
func (f *Forecaster) arima(values []float64, p, d, horizon int) ([]float64, []float64, error) {
	if p < 1 {
		p = 1
	}
	if d < 0 {
		d = 0
	}

	diff := statistics.Difference(values, d)
	if len(diff) <= p {
		return nil, nil, errors.NewInsufficientDataError("differenced series too short for the requested AR order")
	}

	coeffs := statistics.YuleWalker(diff, p)
	mean := stat.Mean(diff, nil)

	residuals := make([]float64, 0, len(diff)-p)
	for t := p; t < len(diff); t++ {
		pred := mean
		for j, phi := range coeffs {
			pred += phi * (diff[t-1-j] - mean)
		}
		residuals = append(residuals, diff[t]-pred)
	}

	working := make([]float64, len(diff), len(diff)+horizon)
	copy(working, diff)

	diffForecasts := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		pred := mean
		for j, phi := range coeffs {
			pred += phi * (working[len(working)-1-j] - mean)
		}
		diffForecasts[h] = pred
		working = append(working, pred)
	}

	return statistics.Integrate(diffForecasts, values, d), residuals, nil
}

// exponentialSmoothing applies single exponential smoothing and repeats the
// final smoothed level across the horizon. Residuals are the one-step-ahead
// errors.
func (f *Forecaster) exponentialSmoothing(values []float64, horizon int) ([]float64, []float64) {
	alpha := f.config.SmoothingFactor

	level := values[0]
	residuals := make([]float64, 0, len(values)-1)
	for _, v := range values[1:] {
		residuals = append(residuals, v-level)
		level = alpha*v + (1-alpha)*level
	}

	predictions := make([]float64, horizon)
	for h := range predictions {
		predictions[h] = level
	}

	return predictions, residuals
}

// seasonal decomposes the series, extrapolates the trend by its own
// regression slope and tiles the seasonal pattern forward by period.
func (f *Forecaster) seasonal(data *models.TimeSeriesData, horizon int) ([]float64, []float64, error) {
	dec, err := f.decomposer.Decompose(data, 0)
	if err != nil {
		return nil, nil, err
	}

	n := data.Len()
	reg := statistics.LinearRegression(dec.Trend)
	lastTrend := dec.Trend[n-1]

	predictions := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		trendVal := lastTrend + reg.Slope*float64(h+1)
		seasonalVal := dec.Seasonal[(n+h)%dec.SeasonalPeriod]
		predictions[h] = trendVal + seasonalVal
	}

	return predictions, dec.Residual, nil
}

// prophetLike combines a global linear trend over the index with a 7-bucket
// day-of-week offset derived from the series' real timestamps.
func (f *Forecaster) prophetLike(data *models.TimeSeriesData, horizon int) ([]float64, []float64, error) {
	n := data.Len()
	if len(data.Timestamps) != n {
		return nil, nil, errors.NewInvalidInputError("prophet-like model requires one timestamp per value")
	}

	reg := statistics.LinearRegression(data.Values)
	overallMean := stat.Mean(data.Values, nil)

	var sums [7]float64
	var counts [7]int
	for i, ts := range data.Timestamps {
		wd := int(ts.Weekday())
		sums[wd] += data.Values[i]
		counts[wd]++
	}

	var offsets [7]float64
	for wd := range offsets {
		if counts[wd] > 0 {
			offsets[wd] = sums[wd]/float64(counts[wd]) - overallMean
		}
	}

	residuals := make([]float64, n)
	for i, ts := range data.Timestamps {
		fitted := reg.Intercept + reg.Slope*float64(i) + offsets[int(ts.Weekday())]
		residuals[i] = data.Values[i] - fitted
	}

	last := data.LastTimestamp()
	predictions := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		ts := last.AddDate(0, 0, h+1)
		predictions[h] = reg.Intercept + reg.Slope*float64(n+h) + offsets[int(ts.Weekday())]
	}

	return predictions, residuals, nil
}

// forecastAccuracy is a normalized-error goodness score: 1 - sum(r^2)/sum(v^2),
// clamped at 0. It is not a true R-squared.
func forecastAccuracy(values, residuals []float64) float64 {
	var sumSq float64
	for _, v := range values {
		sumSq += v * v
	}
	if sumSq == 0 {
		return 0
	}

	var resSq float64
	for _, r := range residuals {
		resSq += r * r
	}

	accuracy := 1 - resSq/sumSq
	if accuracy < 0 {
		return 0
	}
	return accuracy
}

// confidenceIntervals builds symmetric intervals around each prediction:
// prediction +/- z * RMSE(residuals), with z derived from the requested
// confidence level.
func confidenceIntervals(predictions, residuals []float64, confidenceLevel float64) []models.ConfidenceInterval {
	stderr := 0.0
	if len(residuals) > 0 {
		var sumSq float64
		for _, r := range residuals {
			sumSq += r * r
		}
		stderr = math.Sqrt(sumSq / float64(len(residuals)))
	}

	margin := statistics.ZMultiplier(confidenceLevel) * stderr

	intervals := make([]models.ConfidenceInterval, len(predictions))
	for i, p := range predictions {
		intervals[i] = models.ConfidenceInterval{Lower: p - margin, Upper: p + margin}
	}
	return intervals
}

// forecastTimestamps projects forward one calendar day per horizon step from
// the last known timestamp.
func forecastTimestamps(last time.Time, horizon int) []time.Time {
	timestamps := make([]time.Time, horizon)
	for i := range timestamps {
		timestamps[i] = last.AddDate(0, 0, i+1)
	}
	return timestamps
}
