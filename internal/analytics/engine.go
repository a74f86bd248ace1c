// Package analytics exposes the engine's four operations behind a single
// facade: forecast, decompose, detect anomalies and analyze trend. Every
// operation is a pure computation over its input; the engine holds no state
// between calls and is safe for concurrent use.
package analytics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pulseforge/tsengine/internal/anomaly"
	"github.com/pulseforge/tsengine/internal/decomposition"
	"github.com/pulseforge/tsengine/internal/forecast"
	"github.com/pulseforge/tsengine/internal/trend"
	"github.com/pulseforge/tsengine/pkg/models"
)

// Config aggregates the tuning parameters of all components.
type Config struct {
	Forecast *forecast.Config `json:"forecast" mapstructure:"forecast"`
	Anomaly  *anomaly.Config  `json:"anomaly" mapstructure:"anomaly"`
}

// DefaultConfig returns engine defaults.
func DefaultConfig() *Config {
	return &Config{
		Forecast: forecast.DefaultConfig(),
		Anomaly:  anomaly.DefaultConfig(),
	}
}

// Engine is the time series analytics facade.
type Engine struct {
	logger     *logrus.Logger
	forecaster *forecast.Forecaster
	decomposer *decomposition.Decomposer
	detector   *anomaly.Detector
	analyzer   *trend.Analyzer
}

// NewEngine creates an engine. Nil config or logger use defaults.
func NewEngine(config *Config, logger *logrus.Logger) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Engine{
		logger:     logger,
		forecaster: forecast.NewForecaster(config.Forecast, logger),
		decomposer: decomposition.NewDecomposer(logger),
		detector:   anomaly.NewDetector(config.Anomaly, logger),
		analyzer:   trend.NewAnalyzer(logger),
	}
}

// Forecast predicts horizon future values using the given model. A
// confidenceLevel outside (0,1) uses the configured default (0.95).
func (e *Engine) Forecast(ctx context.Context, data *models.TimeSeriesData, model forecast.Model, horizon int, confidenceLevel float64) (*models.ForecastResult, error) {
	start := time.Now()

	result, err := e.forecaster.Forecast(ctx, data, model, horizon, confidenceLevel)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"model":    result.Model,
		"horizon":  horizon,
		"accuracy": result.Accuracy,
		"duration": time.Since(start),
	}).Info("Forecast completed")

	return result, nil
}

// Decompose splits the series into trend, seasonal and residual components.
// A seasonalPeriod of 0 auto-detects the period.
func (e *Engine) Decompose(ctx context.Context, data *models.TimeSeriesData, seasonalPeriod int) (*models.SeasonalDecomposition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	result, err := e.decomposer.Decompose(data, seasonalPeriod)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"period":   result.SeasonalPeriod,
		"strength": result.Strength,
		"duration": time.Since(start),
	}).Info("Seasonal decomposition completed")

	return result, nil
}

// DetectAnomalies scores every sample with the named method. A threshold
// <= 0 uses the configured default; an unknown method falls back to z-score.
func (e *Engine) DetectAnomalies(ctx context.Context, data *models.TimeSeriesData, method string, threshold float64) (*models.AnomalyDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	result := e.detector.Detect(data, method, threshold)

	e.logger.WithFields(logrus.Fields{
		"method":    result.Method,
		"anomalies": len(result.Anomalies),
		"threshold": result.Threshold,
		"duration":  time.Since(start),
	}).Info("Anomaly detection completed")

	return result, nil
}

// AnalyzeTrend classifies the series' direction and locates change points.
func (e *Engine) AnalyzeTrend(ctx context.Context, data *models.TimeSeriesData, confidenceLevel float64) (*models.TrendAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	result, err := e.analyzer.AnalyzeTrend(data, confidenceLevel)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"direction":     result.TrendDirection,
		"slope":         result.Slope,
		"p_value":       result.PValue,
		"change_points": len(result.ChangePoints),
		"duration":      time.Since(start),
	}).Info("Trend analysis completed")

	return result, nil
}
