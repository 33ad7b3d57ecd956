package model

import "time"

// CreatedAtLayout is the wire and storage format of LogRecord.CreatedAt:
// UTC, second precision, explicit zone marker.
const CreatedAtLayout = "2006-01-02T15:04:05Z"

// LogRecord represents a row in the logs table.
// The raw request text is never part of it; only its hash is kept.
type LogRecord struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"-"`
	OriginalHash   string    `json:"-"`
	AnonymizedText string    `json:"anonymized_text"`
	Label          string    `json:"label"`
	Score          float64   `json:"score"`
	ClientIP       *string   `json:"client_ip"`
}

// CreatedAtString formats CreatedAt for storage and responses.
func (l *LogRecord) CreatedAtString() string {
	return l.CreatedAt.UTC().Format(CreatedAtLayout)
}

// LogEntry is the public view of a LogRecord returned by the audit endpoint.
type LogEntry struct {
	ID             int64   `json:"id"`
	CreatedAt      string  `json:"created_at"`
	AnonymizedText string  `json:"anonymized_text"`
	Label          string  `json:"label"`
	Score          float64 `json:"score"`
	ClientIP       *string `json:"client_ip"`
}

// Entry converts the record into its public view.
func (l *LogRecord) Entry() LogEntry {
	return LogEntry{
		ID:             l.ID,
		CreatedAt:      l.CreatedAtString(),
		AnonymizedText: l.AnonymizedText,
		Label:          l.Label,
		Score:          l.Score,
		ClientIP:       l.ClientIP,
	}
}
