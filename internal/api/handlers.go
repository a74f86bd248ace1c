// Package api exposes the analytics engine to downstream collaborators over
// HTTP. The engine contract itself stays unchanged; this layer only decodes
// requests, dispatches and maps typed errors to status codes.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pulseforge/tsengine/internal/analytics"
	"github.com/pulseforge/tsengine/internal/forecast"
	apperrors "github.com/pulseforge/tsengine/pkg/errors"
	"github.com/pulseforge/tsengine/pkg/models"
)

// Handlers bundles the HTTP handlers around an engine.
type Handlers struct {
	engine *analytics.Engine
	logger *logrus.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(engine *analytics.Engine, logger *logrus.Logger) *Handlers {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handlers{engine: engine, logger: logger}
}

// seriesPayload is the wire form of a time series.
type seriesPayload struct {
	Timestamps []time.Time            `json:"timestamps"`
	Values     []float64              `json:"values"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

func (p *seriesPayload) toModel() *models.TimeSeriesData {
	return &models.TimeSeriesData{
		Timestamps: p.Timestamps,
		Values:     p.Values,
		Metadata:   p.Metadata,
	}
}

type forecastRequest struct {
	Series          seriesPayload  `json:"series"`
	Model           forecast.Model `json:"model"`
	Horizon         int            `json:"horizon"`
	ConfidenceLevel float64        `json:"confidence_level,omitempty"`
}

type decomposeRequest struct {
	Series         seriesPayload `json:"series"`
	SeasonalPeriod int           `json:"seasonal_period,omitempty"`
}

type detectRequest struct {
	Series    seriesPayload `json:"series"`
	Method    string        `json:"method"`
	Threshold float64       `json:"threshold,omitempty"`
}

type trendRequest struct {
	Series          seriesPayload `json:"series"`
	ConfidenceLevel float64       `json:"confidence_level,omitempty"`
}

// Forecast handles POST /api/v1/forecast.
func (h *Handlers) Forecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.NewInvalidInputError("invalid request body"))
		return
	}

	result, err := h.engine.Forecast(r.Context(), req.Series.toModel(), req.Model, req.Horizon, req.ConfidenceLevel)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Decompose handles POST /api/v1/decompose.
func (h *Handlers) Decompose(w http.ResponseWriter, r *http.Request) {
	var req decomposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.NewInvalidInputError("invalid request body"))
		return
	}

	result, err := h.engine.Decompose(r.Context(), req.Series.toModel(), req.SeasonalPeriod)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// DetectAnomalies handles POST /api/v1/anomalies.
func (h *Handlers) DetectAnomalies(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.NewInvalidInputError("invalid request body"))
		return
	}

	result, err := h.engine.DetectAnomalies(r.Context(), req.Series.toModel(), req.Method, req.Threshold)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// AnalyzeTrend handles POST /api/v1/trend.
func (h *Handlers) AnalyzeTrend(w http.ResponseWriter, r *http.Request) {
	var req trendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.NewInvalidInputError("invalid request body"))
		return
	}

	result, err := h.engine.AnalyzeTrend(r.Context(), req.Series.toModel(), req.ConfidenceLevel)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error *apperrors.AppError `json:"error"`
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		appErr = apperrors.WrapError(err, apperrors.ErrorTypeInternal, apperrors.CodeInternalError, "internal error")
	}

	status := http.StatusInternalServerError
	if appErr.Type == apperrors.ErrorTypeValidation {
		status = http.StatusBadRequest
	}

	h.writeJSON(w, status, errorResponse{Error: appErr})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("Failed to encode response")
	}
}
