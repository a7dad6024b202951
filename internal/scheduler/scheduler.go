// Package scheduler runs the periodic detection loop.
package scheduler

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/kael/sitwell/internal/errors"
	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/services"
)

// Scheduler drives detection cycles at the configured capture interval.
// Cycles run strictly one at a time; a slow cycle delays the next tick
// instead of overlapping it.
type Scheduler struct {
	mu        sync.Mutex
	detection *services.DetectionService
	log       *logger.Logger

	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New creates a stopped scheduler.
func New(detection *services.DetectionService) *Scheduler {
	return &Scheduler{
		detection: detection,
		log:       logger.Default().WithPrefix("scheduler"),
	}
}

// Start launches the loop. It refuses to start while no calibrated head
// ratio threshold exists, and while already running.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return apperrors.NewBadRequestError("detection loop is already running")
	}
	if err := s.detection.EnsureCalibrated(); err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(loopCtx)
	s.log.Info("detection loop started")
	return nil
}

// Stop cancels the loop and waits for the in-flight cycle to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	s.log.Info("detection loop stopped")
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ctx = logger.NewContext(ctx, s.log)
	for {
		interval := time.Duration(s.detection.CurrentSettings().CaptureIntervalSeconds) * time.Second
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := s.detection.RunCycle(ctx); err != nil {
			s.log.Error("detection cycle failed: %v", err)
		}
	}
}
