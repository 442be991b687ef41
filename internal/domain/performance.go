package domain

import (
	"context"
	"time"
)

// PerformanceDelta is one observation of a platform's behavior during a
// comparison. Rank is 1-based; zero means "no rank recorded" (the raw pass).
type PerformanceDelta struct {
	Success        bool
	ResponseTimeMs int64
	Rank           int
	IsWinner       bool
}

// PlatformPerformanceRecord accumulates per-platform daily stats for one
// corridor. AverageResponseTimeMs and AverageRank are running weighted
// averages over TotalRequests.
type PlatformPerformanceRecord struct {
	PlatformName          string     `json:"platformName"`
	SenderCountry         string     `json:"senderCountry"`
	RecipientCountry      string     `json:"recipientCountry"`
	Date                  time.Time  `json:"date"`
	TotalRequests         int64      `json:"totalRequests"`
	SuccessfulRequests    int64      `json:"successfulRequests"`
	FailedRequests        int64      `json:"failedRequests"`
	AverageResponseTimeMs float64    `json:"averageResponseTime"`
	TimesWinner           int64      `json:"timesWinner"`
	AverageRank           *float64   `json:"averageRank"`
	UpdatedAt             time.Time  `json:"-"`
}

type PerformanceRepository interface {
	UpsertPerformance(ctx context.Context, platformName, senderCountry, recipientCountry string, delta PerformanceDelta) error
	Leaderboard(ctx context.Context, senderCountry, recipientCountry string, since time.Time) ([]*PlatformPerformanceRecord, error)
}
