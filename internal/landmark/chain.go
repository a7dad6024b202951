package landmark

import (
	"context"

	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/models"
)

// Disabled is the null backend: it always reports "not found". It is the
// guaranteed last entry of every chain, so the pipeline always gets a
// definite answer.
type Disabled struct{}

// NewDisabled creates the null backend.
func NewDisabled() *Disabled { return &Disabled{} }

func (*Disabled) EstimatePose(context.Context) (*models.LandmarkFrame, error) { return nil, nil }
func (*Disabled) DetectFace(context.Context) (*models.FaceBox, error)         { return nil, nil }
func (*Disabled) Name() string                                                { return "disabled" }
func (*Disabled) Close() error                                                { return nil }

// Chain probes backends top-down and takes the first definite answer.
// A backend error moves on to the next entry; only "found" or "not found"
// from a working backend stops the walk.
type Chain struct {
	providers []Provider
	log       *logger.Logger
}

// NewChain builds an ordered fallback chain. A Disabled terminator is
// appended when the caller did not end with one.
func NewChain(providers ...Provider) *Chain {
	if len(providers) == 0 || providers[len(providers)-1].Name() != "disabled" {
		providers = append(providers, NewDisabled())
	}
	return &Chain{
		providers: providers,
		log:       logger.Default().WithPrefix("landmark"),
	}
}

// EstimatePose walks the chain until a backend answers.
func (c *Chain) EstimatePose(ctx context.Context) (*models.LandmarkFrame, error) {
	for i, p := range c.providers {
		frame, err := p.EstimatePose(ctx)
		if err != nil {
			c.logFailure(p, i, err)
			continue
		}
		return frame, nil
	}
	return nil, nil
}

// DetectFace walks the chain until a backend answers.
func (c *Chain) DetectFace(ctx context.Context) (*models.FaceBox, error) {
	for i, p := range c.providers {
		box, err := p.DetectFace(ctx)
		if err != nil {
			c.logFailure(p, i, err)
			continue
		}
		return box, nil
	}
	return nil, nil
}

func (c *Chain) logFailure(p Provider, index int, err error) {
	if index < len(c.providers)-1 {
		c.log.Warn("backend %s failed, falling back: %v", p.Name(), err)
	} else {
		c.log.Error("last backend %s failed: %v", p.Name(), err)
	}
}

// Name identifies the chain in logs.
func (c *Chain) Name() string { return "chain" }

// Close closes every backend, returning the first error.
func (c *Chain) Close() error {
	var first error
	for _, p := range c.providers {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
