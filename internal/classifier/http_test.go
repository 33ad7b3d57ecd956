package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInferenceServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var inputs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/acme/sentiment", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req inferenceRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		inputs = append(inputs, req.Inputs)

		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &inputs
}

func newTestClassifier(url string) *HTTPClassifier {
	return NewHTTPClassifier(HTTPConfig{
		BaseURL: url + "/",
		Model:   "acme/sentiment",
		Token:   "secret",
		Timeout: 5 * time.Second,
	})
}

func TestHTTPClassifierNestedResponse(t *testing.T) {
	srv, inputs := newInferenceServer(t, http.StatusOK,
		`[[{"label":"negative","score":0.02},{"label":"positive","score":0.95},{"label":"neutral","score":0.03}]]`)

	got, err := newTestClassifier(srv.URL).Classify(context.Background(), "great film")
	require.NoError(t, err)

	assert.Equal(t, "positive", got.Label)
	assert.InDelta(t, 0.95, got.Score, 1e-9)
	assert.Equal(t, []string{"great film"}, *inputs)
}

func TestHTTPClassifierFlatResponse(t *testing.T) {
	srv, _ := newInferenceServer(t, http.StatusOK, `[{"label":"neutral","score":0.6},{"label":"negative","score":0.4}]`)

	got, err := newTestClassifier(srv.URL).Classify(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "neutral", got.Label)
}

func TestHTTPClassifierErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"model loading", http.StatusServiceUnavailable, `{"error":"loading"}`, ErrUnavailable},
		{"empty result", http.StatusOK, `[]`, ErrNoPrediction},
		{"empty nested result", http.StatusOK, `[[]]`, ErrNoPrediction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newInferenceServer(t, tt.status, tt.body)
			_, err := newTestClassifier(srv.URL).Classify(context.Background(), "x")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHTTPClassifierBadStatus(t *testing.T) {
	srv, _ := newInferenceServer(t, http.StatusBadRequest, `{"error":"bad"}`)

	_, err := newTestClassifier(srv.URL).Classify(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestHTTPClassifierUnreachable(t *testing.T) {
	c := NewHTTPClassifier(HTTPConfig{BaseURL: "http://127.0.0.1:1", Model: "m", Timeout: time.Second})

	_, err := c.Classify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "m", c.Name())
}
