// Package models defines the value types exchanged with the analytics engine.
package models

import (
	"time"
)

// TimeSeriesData is an ordered sequence of (timestamp, value) pairs with an
// open metadata map. The engine treats it as immutable and never mutates it.
// Timestamps are assumed, not enforced, to be monotonically non-decreasing.
type TimeSeriesData struct {
	Timestamps []time.Time            `json:"timestamps"`
	Values     []float64              `json:"values"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// NewTimeSeriesData creates a series from parallel timestamp/value slices.
func NewTimeSeriesData(timestamps []time.Time, values []float64) *TimeSeriesData {
	return &TimeSeriesData{
		Timestamps: timestamps,
		Values:     values,
		Metadata:   make(map[string]interface{}),
	}
}

// Len returns the number of samples in the series.
func (ts *TimeSeriesData) Len() int {
	return len(ts.Values)
}

// LastTimestamp returns the timestamp of the final sample, or the zero time
// for an empty series.
func (ts *TimeSeriesData) LastTimestamp() time.Time {
	if len(ts.Timestamps) == 0 {
		return time.Time{}
	}
	return ts.Timestamps[len(ts.Timestamps)-1]
}

// ConfidenceInterval is a symmetric (lower, upper) bound pair around a
// prediction.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ForecastResult contains the output of a single forecasting call.
// Predictions, ConfidenceIntervals and Timestamps always have exactly
// horizon entries.
type ForecastResult struct {
	Predictions         []float64            `json:"predictions"`
	ConfidenceIntervals []ConfidenceInterval `json:"confidence_intervals"`
	Timestamps          []time.Time          `json:"timestamps"`
	Model               string               `json:"model"`
	Accuracy            float64              `json:"accuracy"`
	Residuals           []float64            `json:"residuals"`
}

// SeasonalDecomposition splits a series into trend, seasonal and residual
// components. All three sequences have the same length as the input and
// satisfy value[i] = trend[i] + seasonal[i] + residual[i].
type SeasonalDecomposition struct {
	Trend          []float64 `json:"trend"`
	Seasonal       []float64 `json:"seasonal"`
	Residual       []float64 `json:"residual"`
	SeasonalPeriod int       `json:"seasonal_period"`
	Strength       float64   `json:"strength"`
}

// AnomalyDetection contains per-sample anomaly scores and the indices whose
// absolute score exceeded the threshold.
type AnomalyDetection struct {
	Anomalies []int     `json:"anomalies"`
	Scores    []float64 `json:"scores"`
	Threshold float64   `json:"threshold"`
	Method    string    `json:"method"`
}

// TrendDirection classifies the overall movement of a series.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
	TrendVolatile   TrendDirection = "volatile"
)

// TrendAnalysis contains the regression-based trend assessment of a series.
type TrendAnalysis struct {
	Slope          float64        `json:"slope"`
	PValue         float64        `json:"p_value"`
	Confidence     float64        `json:"confidence"`
	TrendDirection TrendDirection `json:"trend_direction"`
	ChangePoints   []int          `json:"change_points"`
}
