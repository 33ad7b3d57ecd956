package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"sentiment-rest-api/internal/classifier"
	"sentiment-rest-api/internal/model"
	"sentiment-rest-api/internal/requestctx"

	"github.com/rs/zerolog/log"
)

var (
	// ErrEmptyText is returned for blank input.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrModelUnavailable is returned when no classifier is configured.
	ErrModelUnavailable = errors.New("model is not available")
)

// Auditor records classification events.
type Auditor interface {
	Append(ctx context.Context, originalText, label string, score float64, clientIP string) (*model.LogRecord, error)
}

// PredictionService classifies text and writes the audit trail.
type PredictionService struct {
	classifier classifier.Classifier
	audit      Auditor
}

// NewPredictionService creates a prediction service. A nil classifier makes
// every prediction fail with ErrModelUnavailable; a nil auditor disables the
// audit trail.
func NewPredictionService(c classifier.Classifier, audit Auditor) *PredictionService {
	return &PredictionService{classifier: c, audit: audit}
}

// ModelLoaded reports whether a classifier is configured.
func (s *PredictionService) ModelLoaded() bool {
	return s.classifier != nil
}

// Predict classifies text. The audit append happens before returning, but its
// failure never changes the prediction.
func (s *PredictionService) Predict(ctx context.Context, text, clientIP string) (*model.Prediction, error) {
	if s.classifier == nil {
		return nil, ErrModelUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	result, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return nil, err
	}
	score := math.Round(result.Score*10000) / 10000

	if s.audit != nil {
		// Audit failures are reported and dropped: the caller still gets its prediction.
		if _, err := s.audit.Append(context.WithoutCancel(ctx), text, result.Label, score, clientIP); err != nil {
			log.Warn().Err(err).
				Str("request_id", requestctx.RequestID(ctx)).
				Str("label", result.Label).
				Msg("audit_append_failed")
		}
	}

	return &model.Prediction{
		Text:  text,
		Label: result.Label,
		Score: score,
	}, nil
}
