package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/evaluate", s.handleEvaluate)

		r.Route("/calibration", func(r chi.Router) {
			r.Get("/", s.handleCalibrationStatus)
			r.Post("/samples", s.handleCaptureSample)
			r.Delete("/samples/{phase}/{index}", s.handleRemoveSample)
			r.Post("/reset", s.handleCalibrationReset)
		})

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)

		r.Get("/stats/today", s.handleStatsToday)
		r.Get("/stats/history", s.handleStatsHistory)

		r.Get("/events", s.handleListEvents)

		r.Post("/detection/start", s.handleDetectionStart)
		r.Post("/detection/stop", s.handleDetectionStop)
		r.Get("/detection", s.handleDetectionStatus)

		r.Get("/healthz", s.handleHealth)
	})

	return r
}
