// Package landmark abstracts the external body/face landmark estimator.
// Backends are chosen at construction time by configuration; the core never
// inspects concrete types at runtime.
package landmark

import (
	"context"

	"github.com/kael/sitwell/internal/config"
	"github.com/kael/sitwell/internal/models"
)

// Provider supplies landmark estimates for the most recent camera frame.
// A nil result with a nil error means "not found" and is a normal outcome,
// never an error; the pipeline maps it to an unknown verdict.
type Provider interface {
	// EstimatePose returns the body landmarks for the current frame, or nil
	// when no pose was found.
	EstimatePose(ctx context.Context) (*models.LandmarkFrame, error)

	// DetectFace returns the dominant face box for the current frame, or
	// nil when no face was found.
	DetectFace(ctx context.Context) (*models.FaceBox, error)

	// Name identifies the backend in logs.
	Name() string

	// Close releases backend resources.
	Close() error
}

// New selects a provider backend from configuration. The returned provider
// is always wrapped in a fallback chain whose final entry yields a definite
// "not found", so callers never see a backend-selection failure at runtime.
func New(cfg config.Config) Provider {
	switch cfg.LandmarkBackend {
	case "sidecar":
		return NewChain(NewSidecar(cfg.LandmarkSidecarURL, cfg.LandmarkTimeoutMillis), NewDisabled())
	default:
		return NewDisabled()
	}
}
