package domain

import (
	"context"
	"time"
)

type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// PlatformAnalytics summarizes one platform's behavior on a corridor over a
// time window. ReliabilityScore blends win rate, response time and
// consistency of the receive amounts.
type PlatformAnalytics struct {
	Platform             string         `json:"platform"`
	TotalComparisons     int            `json:"totalComparisons"`
	WinCount             int            `json:"winCount"`
	WinRate              float64        `json:"winRate"`
	AverageReceiveAmount float64        `json:"averageReceiveAmount"`
	AverageExchangeRate  float64        `json:"averageExchangeRate"`
	AverageFees          float64        `json:"averageFees"`
	AverageResponseTime  float64        `json:"averageResponseTime"`
	ReliabilityScore     float64        `json:"reliabilityScore"`
	TrendDirection       TrendDirection `json:"trendDirection"`
	LastSeen             time.Time      `json:"lastSeen"`
}

type CorridorAnalytics struct {
	SenderCountry    string    `json:"senderCountry"`
	RecipientCountry string    `json:"recipientCountry"`
	TotalComparisons int64     `json:"totalComparisons"`
	AverageAmount    float64   `json:"averageAmount"`
	PopularityRank   int       `json:"popularityRank"`
	BestPlatform     string    `json:"bestPlatform"`
	AverageSavings   float64   `json:"averageSavings"`
	VolatilityScore  float64   `json:"volatilityScore"`
	LastCompared     time.Time `json:"lastCompared"`
}

type TrendAnalysis struct {
	Platform         string         `json:"platform"`
	Period           string         `json:"period"`
	StartRate        float64        `json:"startRate"`
	EndRate          float64        `json:"endRate"`
	ChangePercentage float64        `json:"changePercentage"`
	Direction        TrendDirection `json:"direction"`
	Confidence       float64        `json:"confidence"`
}

type CorridorCount struct {
	Corridor    string `json:"corridor"`
	Comparisons int    `json:"comparisons"`
}

type DailySummary struct {
	Date                string          `json:"date"`
	TotalComparisons    int             `json:"totalComparisons"`
	UniqueCorridors     int             `json:"uniqueCorridors"`
	PlatformPerformance map[string]int  `json:"platformPerformance"`
	TopCorridors        []CorridorCount `json:"topCorridors"`
	AverageAmount       float64         `json:"averageAmount"`
	Summary             string          `json:"summary"`
}

type AnalyticsUsecase interface {
	PlatformAnalytics(ctx context.Context, senderCountry, recipientCountry string, days int) ([]*PlatformAnalytics, error)
	CorridorAnalytics(ctx context.Context, days int) ([]*CorridorAnalytics, error)
	TrendAnalysis(ctx context.Context, senderCountry, recipientCountry string, periods []string) ([]*TrendAnalysis, error)
	DailySummary(ctx context.Context, date time.Time) (*DailySummary, error)
}

// CorridorPopularityRepository stores the periodically refreshed corridor
// popularity table used by the background refresh job.
type CorridorPopularityRepository interface {
	Replace(ctx context.Context, corridors []*CorridorAnalytics) error
}
