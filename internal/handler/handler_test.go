package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sentiment-rest-api/internal/classifier"
	"sentiment-rest-api/internal/model"
	"sentiment-rest-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	result model.Classification
	err    error
}

func (f fakeClassifier) Name() string { return "fake" }

func (f fakeClassifier) Classify(ctx context.Context, text string) (model.Classification, error) {
	return f.result, f.err
}

type fakeAudit struct {
	appendErr error
	listErr   error
	records   []model.LogRecord
	lastIP    string
	lastLimit int
}

func (f *fakeAudit) Append(ctx context.Context, originalText, label string, score float64, clientIP string) (*model.LogRecord, error) {
	f.lastIP = clientIP
	return &model.LogRecord{}, f.appendErr
}

func (f *fakeAudit) ListRecent(ctx context.Context, limit int) ([]model.LogRecord, error) {
	f.lastLimit = limit
	return f.records, f.listErr
}

func (f *fakeAudit) Stats(ctx context.Context) (map[string]interface{}, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return map[string]interface{}{"total_records": int64(len(f.records))}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Detail  string          `json:"detail"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func postPredict(h *PredictionHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.RemoteAddr = "198.51.100.4:51234"
	rec := httptest.NewRecorder()
	h.Predict(rec, req)
	return rec
}

func TestPredictHandler(t *testing.T) {
	audit := &fakeAudit{}
	svc := service.NewPredictionService(fakeClassifier{result: model.Classification{Label: "positive", Score: 0.91234}}, audit)

	rec := postPredict(NewPredictionHandler(svc), `{"text":"Great movie"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `{"text":"Great movie","label":"positive","score":0.9123}`, rec.Body.String())
	assert.Equal(t, "198.51.100.4", audit.lastIP)
}

func TestPredictHandlerAuditFailureKeepsResponse(t *testing.T) {
	audit := &fakeAudit{appendErr: errors.New("disk full")}
	svc := service.NewPredictionService(fakeClassifier{result: model.Classification{Label: "negative", Score: 0.7}}, audit)

	rec := postPredict(NewPredictionHandler(svc), `{"text":"Awful"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var pred model.Prediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pred))
	assert.Equal(t, "negative", pred.Label)
}

func TestPredictHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		classifier classifier.Classifier
		body       string
		wantStatus int
		wantCode   string
	}{
		{"invalid json", fakeClassifier{}, `{"text":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"empty text", fakeClassifier{}, `{"text":"   "}`, http.StatusBadRequest, "BAD_REQUEST"},
		{"no model", nil, `{"text":"hi"}`, http.StatusInternalServerError, "MODEL_UNAVAILABLE"},
		{"model loading", fakeClassifier{err: classifier.ErrUnavailable}, `{"text":"hi"}`, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"model failure", fakeClassifier{err: errors.New("bad output")}, `{"text":"hi"}`, http.StatusBadGateway, "BAD_GATEWAY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewPredictionService(tt.classifier, &fakeAudit{})
			rec := postPredict(NewPredictionHandler(svc), tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decode(t, rec)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, env.Error.Message, env.Detail)
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/predict", nil)
	req.RemoteAddr = "192.0.2.1:4000"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))

	req.Header.Del("X-Forwarded-For")
	req.RemoteAddr = "unix-socket"
	assert.Equal(t, "unix-socket", clientIP(req))
}

func TestListLogs(t *testing.T) {
	ip := "192.0.2.1"
	audit := &fakeAudit{records: []model.LogRecord{
		{ID: 2, OriginalHash: "deadbeef", AnonymizedText: "Call [PHONE]", Label: "neutral", Score: 0.5, ClientIP: &ip},
		{ID: 1, OriginalHash: "cafebabe", AnonymizedText: "ok", Label: "positive", Score: 0.9},
	}}

	rec := httptest.NewRecorder()
	NewLogHandler(audit).ListLogs(rec, httptest.NewRequest(http.MethodGet, "/logs?limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, audit.lastLimit)
	assert.NotContains(t, rec.Body.String(), "deadbeef")
	assert.NotContains(t, rec.Body.String(), "original_hash")

	var entries []model.LogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, int64(2), entries[0].ID)
	assert.Equal(t, "Call [PHONE]", entries[0].AnonymizedText)
	assert.Nil(t, entries[1].ClientIP)
}

func TestListLogsDefaultLimit(t *testing.T) {
	audit := &fakeAudit{}

	rec := httptest.NewRecorder()
	NewLogHandler(audit).ListLogs(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, audit.lastLimit)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListLogsBadLimit(t *testing.T) {
	for _, q := range []string{"0", "-1", "abc", "1001"} {
		rec := httptest.NewRecorder()
		NewLogHandler(&fakeAudit{}).ListLogs(rec, httptest.NewRequest(http.MethodGet, "/logs?limit="+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", q)
	}
}

func TestListLogsReadFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	NewLogHandler(&fakeAudit{listErr: errors.New("locked")}).ListLogs(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "locked")
}

func TestHealth(t *testing.T) {
	svc := service.NewPredictionService(nil, nil)
	h := New(Config{Model: svc})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","model_loaded":false}`, rec.Body.String())
}

func TestStatus(t *testing.T) {
	h := New(Config{Audit: &fakeAudit{listErr: errors.New("gone")}, Version: "1.2.3"})

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	var status StatusResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &status))
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, "error", status.AuditLog["status"])
}

func TestHome(t *testing.T) {
	rec := httptest.NewRecorder()
	New(Config{StaticDir: t.TempDir()}).Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"message":"Sentiment API is running. Use POST on /predict."}`, rec.Body.String())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>sentiment</h1>"), 0o644))

	rec = httptest.NewRecorder()
	New(Config{StaticDir: dir}).Home(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte("<h1>sentiment</h1>")))
}
