package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize bounds how much of a model server reply is read
const maxResponseSize = 1 << 20

// HTTPEngine talks to a TensorFlow Serving compatible REST endpoint
type HTTPEngine struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewHTTPEngine creates an engine for {baseURL}/v1/models/{model}
func NewHTTPEngine(baseURL, model string, timeout time.Duration) *HTTPEngine {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Instances [][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

// Predict sends a batch of one and returns the first prediction row
func (e *HTTPEngine) Predict(ctx context.Context, features []float64) ([]float64, error) {
	payload, err := json.Marshal(predictRequest{Instances: [][]float64{features}})
	if err != nil {
		return nil, fmt.Errorf("encode predict request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s:predict", e.baseURL, e.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model server request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read model server response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("model server returned %d: %s", resp.StatusCode, snippet(body))
	}

	var out predictResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode model server response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("model server error: %s", out.Error)
	}
	if len(out.Predictions) != 1 {
		return nil, fmt.Errorf("model server returned %d predictions for 1 instance", len(out.Predictions))
	}
	return out.Predictions[0], nil
}

// Ping checks the model status endpoint
func (e *HTTPEngine) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models/%s", e.baseURL, e.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("model status returned %d", resp.StatusCode)
	}
	return nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
