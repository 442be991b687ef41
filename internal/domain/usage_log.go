package domain

import (
	"context"
	"time"
)

// APIUsageEntry is one append-only usage-log row. Every public comparison
// request produces exactly one entry, success or not.
type APIUsageEntry struct {
	RequestID           string
	Endpoint            string
	Method              string
	SenderCountry       string
	RecipientCountry    string
	Amount              float64
	FetchHistoricalData bool
	StatusCode          int
	ResponseTimeMs      int64
	PlatformsQueried    int
	SuccessfulPlatforms int
	RequestedAt         time.Time
}

// UsageLogRepository is best-effort: implementations return errors, but
// callers log and move on. A failed usage write never blocks a response.
type UsageLogRepository interface {
	LogUsage(ctx context.Context, entry *APIUsageEntry) error
}
