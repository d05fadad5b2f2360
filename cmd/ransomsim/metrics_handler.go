package main

import (
	"encoding/json"
	"net/http"

	"ransomsim/internal/metrics"
	"ransomsim/internal/tracing"

	"github.com/sirupsen/logrus"
)

// handleMetrics returns current application metrics
func (s *Server) handleMetrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestInfo := tracing.GetRequestInfo(r.Context())

		allMetrics := metrics.GetAllMetrics()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(allMetrics); err != nil {
			s.logger.WithFields(logrus.Fields{
				"request_id": requestInfo.RequestID,
				"trace_id":   requestInfo.TraceID,
				"error":      err,
			}).Error("Failed to encode metrics response")

			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}
