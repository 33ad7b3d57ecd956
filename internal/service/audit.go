package service

import (
	"context"
	"fmt"
	"time"

	"sentiment-rest-api/internal/anonymizer"
	"sentiment-rest-api/internal/model"
	"sentiment-rest-api/internal/repository"
	"sentiment-rest-api/pkg/hashutil"
)

// AuditService turns classification events into privacy-scrubbed log records.
// Raw text is hashed and anonymized here and never leaves this function in clear.
type AuditService struct {
	repo     repository.AuditLogRepository
	pipeline *anonymizer.Pipeline
	now      func() time.Time
}

// NewAuditService creates an audit service backed by repo and the default
// anonymization pipeline.
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{
		repo:     repo,
		pipeline: anonymizer.Default(),
		now:      time.Now,
	}
}

// Append records one classification. An empty clientIP is stored as NULL.
func (s *AuditService) Append(ctx context.Context, originalText, label string, score float64, clientIP string) (*model.LogRecord, error) {
	rec := &model.LogRecord{
		CreatedAt:      s.now().UTC().Truncate(time.Second),
		OriginalHash:   hashutil.SHA256Hex(originalText),
		AnonymizedText: s.pipeline.Anonymize(originalText),
		Label:          label,
		Score:          score,
	}
	if clientIP != "" {
		rec.ClientIP = &clientIP
	}

	if err := s.repo.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append audit record: %w", err)
	}
	return rec, nil
}

// ListRecent returns up to limit records, newest first.
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]model.LogRecord, error) {
	records, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	return records, nil
}

// Stats returns audit store statistics.
func (s *AuditService) Stats(ctx context.Context) (map[string]interface{}, error) {
	return s.repo.Stats(ctx)
}
