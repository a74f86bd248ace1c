package api

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/pulseforge/tsengine/internal/analytics"
)

// NewRouter wires the engine's operations into an HTTP router.
func NewRouter(engine *analytics.Engine, logger *logrus.Logger) *mux.Router {
	handlers := NewHandlers(engine, logger)

	router := mux.NewRouter()
	router.Use(LoggingMiddleware(logger))

	router.HandleFunc("/health", handlers.Health).Methods("GET")

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/forecast", handlers.Forecast).Methods("POST")
	v1.HandleFunc("/decompose", handlers.Decompose).Methods("POST")
	v1.HandleFunc("/anomalies", handlers.DetectAnomalies).Methods("POST")
	v1.HandleFunc("/trend", handlers.AnalyzeTrend).Methods("POST")

	return router
}
