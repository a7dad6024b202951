// Package api is the HTTP surface: a thin JSON layer over the posture
// services.
package api

import (
	"context"

	"github.com/kael/sitwell/internal/repository"
	"github.com/kael/sitwell/internal/scheduler"
	"github.com/kael/sitwell/internal/services"
)

type Server struct {
	Detection   *services.DetectionService
	Calibration *services.CalibrationService
	Settings    services.SettingsService
	Stats       services.StatsService
	Events      repository.EventRepository
	Scheduler   *scheduler.Scheduler

	// BaseContext is the application lifetime context the detection loop
	// runs under; request contexts end with the response, so the loop
	// cannot inherit them.
	BaseContext context.Context
}

func (s *Server) baseContext() context.Context {
	if s.BaseContext != nil {
		return s.BaseContext
	}
	return context.Background()
}
