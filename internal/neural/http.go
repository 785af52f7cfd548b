package neural

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/parwely/brands-intelligence-platform/internal/domain"
)

const maxResponseBytes = 1 << 20

// HTTPProvider calls a self-hosted transformer inference endpoint. The
// endpoint accepts {"text": "..."} and responds with a JSON array of
// {"label": "...", "score": 0.x} objects covering the model's classes.
type HTTPProvider struct {
	endpoint string
	client   *http.Client
}

var _ domain.NeuralProvider = (*HTTPProvider)(nil)

// NewHTTPProvider builds a provider for the given inference endpoint.
// client may be nil; a default with a conservative timeout is used then.
func NewHTTPProvider(endpoint string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProvider{endpoint: endpoint, client: client}
}

func (p *HTTPProvider) Name() string { return "http" }

func (p *HTTPProvider) Classify(ctx context.Context, text string) ([]domain.LabelScore, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference endpoint returned status %s", resp.Status)
	}

	var scores []domain.LabelScore
	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := decoder.Decode(&scores); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}
	return scores, nil
}
