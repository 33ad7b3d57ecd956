package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sentiment-rest-api/internal/model"
)

// HTTPConfig holds inference endpoint settings.
type HTTPConfig struct {
	BaseURL string
	Model   string
	Token   string
	Timeout time.Duration
}

// HTTPClassifier calls a remote text-classification endpoint.
type HTTPClassifier struct {
	endpoint string
	model    string
	token    string
	client   *http.Client
}

// NewHTTPClassifier creates a classifier posting to <BaseURL>/models/<Model>.
func NewHTTPClassifier(cfg HTTPConfig) *HTTPClassifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClassifier{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/models/" + cfg.Model,
		model:    cfg.Model,
		token:    cfg.Token,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Classifier.
func (c *HTTPClassifier) Name() string {
	return c.model
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Classify implements Classifier.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (model.Classification, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return model.Classification{}, fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Classification{}, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return model.Classification{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return model.Classification{}, fmt.Errorf("read inference response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return model.Classification{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 300:
		return model.Classification{}, fmt.Errorf("inference endpoint returned status %d: %s",
			resp.StatusCode, truncate(string(payload), 200))
	}

	scores, err := decodeScores(payload)
	if err != nil {
		return model.Classification{}, err
	}
	return top(scores)
}

// decodeScores accepts both [[{label,score}...]] and [{label,score}...].
func decodeScores(payload []byte) ([]model.Classification, error) {
	var nested [][]model.Classification
	if err := json.Unmarshal(payload, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}

	var flat []model.Classification
	if err := json.Unmarshal(payload, &flat); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}
	return flat, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Classifier = (*HTTPClassifier)(nil)
