package service

import (
	"context"
	"errors"
	"testing"

	"sentiment-rest-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	result model.Classification
	err    error
	texts  []string
}

func (s *stubClassifier) Name() string { return "stub" }

func (s *stubClassifier) Classify(ctx context.Context, text string) (model.Classification, error) {
	s.texts = append(s.texts, text)
	return s.result, s.err
}

type recordingAuditor struct {
	err   error
	calls []string
	ips   []string
	score float64
}

func (a *recordingAuditor) Append(ctx context.Context, originalText, label string, score float64, clientIP string) (*model.LogRecord, error) {
	a.calls = append(a.calls, originalText)
	a.ips = append(a.ips, clientIP)
	a.score = score
	if a.err != nil {
		return nil, a.err
	}
	return &model.LogRecord{ID: int64(len(a.calls))}, nil
}

func TestPredict(t *testing.T) {
	clf := &stubClassifier{result: model.Classification{Label: "positive", Score: 0.987654}}
	audit := &recordingAuditor{}
	svc := NewPredictionService(clf, audit)

	got, err := svc.Predict(context.Background(), "Skvělý film!", "203.0.113.5")
	require.NoError(t, err)

	assert.Equal(t, &model.Prediction{Text: "Skvělý film!", Label: "positive", Score: 0.9877}, got)
	assert.Equal(t, []string{"Skvělý film!"}, clf.texts)
	assert.Equal(t, []string{"Skvělý film!"}, audit.calls)
	assert.Equal(t, []string{"203.0.113.5"}, audit.ips)
	assert.Equal(t, 0.9877, audit.score)
}

func TestPredictAuditFailureIsNonFatal(t *testing.T) {
	clf := &stubClassifier{result: model.Classification{Label: "negative", Score: 0.6}}
	audit := &recordingAuditor{err: errors.New("disk full")}
	svc := NewPredictionService(clf, audit)

	got, err := svc.Predict(context.Background(), "bad", "")
	require.NoError(t, err)
	assert.Equal(t, "negative", got.Label)
	assert.Len(t, audit.calls, 1)
}

func TestPredictAuditSurvivesCancelledRequest(t *testing.T) {
	clf := &stubClassifier{result: model.Classification{Label: "neutral", Score: 0.5}}
	var auditCtxErr error
	audit := auditFunc(func(ctx context.Context) { auditCtxErr = ctx.Err() })
	svc := NewPredictionService(clf, audit)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Predict(ctx, "meh", "")
	require.NoError(t, err)
	assert.NoError(t, auditCtxErr)
}

type auditFunc func(ctx context.Context)

func (f auditFunc) Append(ctx context.Context, originalText, label string, score float64, clientIP string) (*model.LogRecord, error) {
	f(ctx)
	return &model.LogRecord{}, nil
}

func TestPredictValidation(t *testing.T) {
	audit := &recordingAuditor{}

	_, err := NewPredictionService(nil, audit).Predict(context.Background(), "text", "")
	assert.ErrorIs(t, err, ErrModelUnavailable)

	clf := &stubClassifier{}
	_, err = NewPredictionService(clf, audit).Predict(context.Background(), "  \n\t", "")
	assert.ErrorIs(t, err, ErrEmptyText)

	assert.Empty(t, clf.texts)
	assert.Empty(t, audit.calls)
}

func TestPredictClassifierError(t *testing.T) {
	boom := errors.New("model exploded")
	audit := &recordingAuditor{}
	svc := NewPredictionService(&stubClassifier{err: boom}, audit)

	_, err := svc.Predict(context.Background(), "text", "")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, audit.calls)
}

func TestModelLoaded(t *testing.T) {
	assert.True(t, NewPredictionService(&stubClassifier{}, nil).ModelLoaded())
	assert.False(t, NewPredictionService(nil, nil).ModelLoaded())
}
