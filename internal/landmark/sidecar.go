package landmark

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kael/sitwell/internal/models"
)

// Sidecar talks to an inference sidecar over HTTP. The sidecar owns the
// camera and runs the pose/face models; this client only fetches the latest
// estimates. 204 means "nothing found this frame".
type Sidecar struct {
	baseURL string
	client  *http.Client
}

// NewSidecar creates a client for the sidecar at baseURL.
func NewSidecar(baseURL string, timeoutMillis int) *Sidecar {
	if timeoutMillis <= 0 {
		timeoutMillis = 2000
	}
	return &Sidecar{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(timeoutMillis) * time.Millisecond},
	}
}

// EstimatePose fetches the body landmarks for the current frame.
func (s *Sidecar) EstimatePose(ctx context.Context) (*models.LandmarkFrame, error) {
	var frame models.LandmarkFrame
	found, err := s.get(ctx, "/v1/pose", &frame)
	if err != nil || !found {
		return nil, err
	}
	return &frame, nil
}

// DetectFace fetches the dominant face box for the current frame.
func (s *Sidecar) DetectFace(ctx context.Context) (*models.FaceBox, error) {
	var box models.FaceBox
	found, err := s.get(ctx, "/v1/face", &box)
	if err != nil || !found {
		return nil, err
	}
	return &box, nil
}

func (s *Sidecar) get(ctx context.Context, path string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("landmark sidecar request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("landmark sidecar returned malformed JSON: %w", err)
		}
		return true, nil
	case http.StatusNoContent:
		return false, nil
	default:
		return false, fmt.Errorf("landmark sidecar returned status %d for %s", resp.StatusCode, path)
	}
}

// Name identifies the backend in logs.
func (s *Sidecar) Name() string { return "sidecar" }

// Close is a no-op; the HTTP client holds no persistent resources.
func (s *Sidecar) Close() error { return nil }
