package domain

import (
	"context"
	"time"
)

// ComparisonExpiry is how long a persisted comparison is kept before the
// cleanup job removes it.
const ComparisonExpiry = 60 * 24 * time.Hour

// ComparisonRecord is the persisted outcome of one corridor comparison.
// At most one record exists per corridor per calendar day.
type ComparisonRecord struct {
	ID                string
	SenderCountry     string
	RecipientCountry  string
	SenderCurrency    string
	RecipientCurrency string
	Amount            float64
	OfficialRate      float64
	OfficialAmount    float64
	PlatformResults   []RateQuoteResult
	WinnerPlatform    string
	BestReceiveAmount float64
	BestExchangeRate  float64
	AverageRate       float64
	RateVariancePct   float64
	PlatformCount     int
	CreatedAt         time.Time
	ExpiresAt         time.Time
}

// ComparisonMetrics are cross-platform aggregates over the successful
// results of one comparison. All fields are zero when nothing succeeded.
type ComparisonMetrics struct {
	AverageReceiveAmount   float64 `json:"averageReceiveAmount"`
	AverageExchangeRate    float64 `json:"averageExchangeRate"`
	AverageFees            float64 `json:"averageFees"`
	BestReceiveAmount      float64 `json:"bestReceiveAmount"`
	WorstReceiveAmount     float64 `json:"worstReceiveAmount"`
	SpreadPercentage       float64 `json:"spreadPercentage"`
	OfficialRateComparison float64 `json:"officialRateComparison"`
	PlatformCount          int     `json:"platformCount"`
}

// Comparison is the full payload returned to the caller of CompareRates.
type Comparison struct {
	SenderCountry         string             `json:"senderCountry"`
	SendingAmount         float64            `json:"sendingAmount"`
	SendingCurrencyCode   string             `json:"sendingCurrencyCode"`
	RecipientCountry      string             `json:"recipientCountry"`
	RecipientCurrencyCode string             `json:"recipientCurrencyCode"`
	OfficialExchangeRate  *OfficialRate      `json:"officialExchangeRate"`
	Platforms             []*RateQuoteResult `json:"platforms"`
	Winner                *RateQuoteResult   `json:"winner"`
	Metrics               ComparisonMetrics  `json:"metrics"`
	ResponseTimeMs        int64              `json:"responseTime"`
	Timestamp             time.Time          `json:"timestamp"`
	HistoricalData        *HistoricalData    `json:"historicalData,omitempty"`
}

// HistoricalData is the optional rollup payload attached when the request
// asks for historical context.
type HistoricalData struct {
	Periods     map[string]*PeriodRollup     `json:"periods"`
	Leaderboard []*PlatformPerformanceRecord `json:"leaderboard"`
	Summary     HistoricalSummary            `json:"summary"`
}

type PeriodRollup struct {
	AverageRates     map[string]float64 `json:"averageRates"`
	BestPerformers   []PeriodPerformer  `json:"bestPerformers"`
	Trends           PeriodTrends       `json:"trends"`
	TotalComparisons int                `json:"totalComparisons"`
	PeriodDays       int                `json:"periodDays"`
}

type PeriodPerformer struct {
	Platform         string  `json:"platform"`
	WinCount         int     `json:"winCount"`
	AvgReceiveAmount float64 `json:"avgReceiveAmount"`
}

type PeriodTrends struct {
	Improving []string `json:"improving"`
	Declining []string `json:"declining"`
	Stable    []string `json:"stable"`
}

type HistoricalSummary struct {
	TotalHistoricalRecords int64      `json:"totalHistoricalRecords"`
	OldestRecord           *time.Time `json:"oldestRecord"`
	MostRecentRecord       *time.Time `json:"mostRecentRecord"`
}

// CorridorSummary is a grouped view over comparison records for one corridor.
type CorridorSummary struct {
	SenderCountry    string
	RecipientCountry string
	Comparisons      int64
	AverageAmount    float64
	LastCompared     time.Time
}

type ComparisonRepository interface {
	SaveComparison(ctx context.Context, record *ComparisonRecord) error
	HasComparisonToday(ctx context.Context, senderCountry, recipientCountry string) (bool, error)
	HistoricalRecords(ctx context.Context, senderCountry, recipientCountry string, since time.Time) ([]*ComparisonRecord, error)
	RecordsSince(ctx context.Context, since time.Time) ([]*ComparisonRecord, error)
	RecordsForDay(ctx context.Context, day time.Time) ([]*ComparisonRecord, error)
	CorridorSummaries(ctx context.Context, since time.Time) ([]*CorridorSummary, error)
	CountForCorridor(ctx context.Context, senderCountry, recipientCountry string) (int64, error)
	OldestRecord(ctx context.Context, senderCountry, recipientCountry string) (*time.Time, error)
	NewestRecord(ctx context.Context, senderCountry, recipientCountry string) (*time.Time, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type ComparisonUsecase interface {
	CompareRates(ctx context.Context, req *RateQuoteRequest) (*Comparison, error)
	GetAllRates(ctx context.Context, req *RateQuoteRequest) ([]*RateQuoteResult, error)
	AvailablePlatforms(senderCountry, recipientCountry string) []string
	HealthCheck(ctx context.Context) map[string]bool
}
