package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/remitip/rates-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func corridorRecord(created time.Time, winner string, results ...domain.RateQuoteResult) *domain.ComparisonRecord {
	record := &domain.ComparisonRecord{
		SenderCountry:    "US",
		RecipientCountry: "NG",
		Amount:           100,
		WinnerPlatform:   winner,
		PlatformResults:  results,
		CreatedAt:        created,
	}
	for _, result := range results {
		if result.Platform == winner {
			record.BestReceiveAmount = result.ReceiveAmount
			record.BestExchangeRate = result.ExchangeRate
		}
	}
	return record
}

func TestPlatformAnalytics(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	// Newest-first, the way the repository returns them.
	records := []*domain.ComparisonRecord{
		corridorRecord(now, "Wise",
			*successResult("Wise", 157500, 105, 5),
			*successResult("XE", 156000, 103, 3),
		),
		corridorRecord(now.AddDate(0, 0, -1), "XE",
			*successResult("Wise", 157500, 105, 5),
			*successResult("XE", 158000, 103, 3),
		),
		corridorRecord(now.AddDate(0, 0, -2), "Wise",
			*successResult("Wise", 157500, 105, 5),
		),
	}
	for _, record := range records {
		for i := range record.PlatformResults {
			record.PlatformResults[i].ResponseTimeMs = 0
		}
	}

	repo := new(MockComparisonRepository)
	repo.On("HistoricalRecords", ctx, "US", "NG", mock.Anything).Return(records, nil)
	uc := NewDefaultAnalyticsUsecase(repo)

	analytics, err := uc.PlatformAnalytics(ctx, "US", "NG", 30)

	require.NoError(t, err)
	require.Len(t, analytics, 2)

	// Wise: 3 comparisons, 2 wins, constant receive amount and zero response
	// time, so reliability = 66.67*0.5 + 100*0.3 + 100*0.2.
	wise := analytics[0]
	assert.Equal(t, "Wise", wise.Platform)
	assert.Equal(t, 3, wise.TotalComparisons)
	assert.Equal(t, 2, wise.WinCount)
	assert.InDelta(t, 66.666, wise.WinRate, 0.01)
	assert.InDelta(t, 83.333, wise.ReliabilityScore, 0.01)
	assert.Equal(t, 157500.0, wise.AverageReceiveAmount)
	assert.Equal(t, domain.TrendStable, wise.TrendDirection)
	assert.Equal(t, now, wise.LastSeen)

	xe := analytics[1]
	assert.Equal(t, "XE", xe.Platform)
	assert.Equal(t, 2, xe.TotalComparisons)
	assert.Equal(t, 1, xe.WinCount)
	assert.Equal(t, 50.0, xe.WinRate)
	assert.Less(t, xe.ReliabilityScore, wise.ReliabilityScore)
}

func TestCorridorAnalytics(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	usNg1 := corridorRecord(now, "Wise", *successResult("Wise", 157500, 105, 5))
	usNg1.OfficialAmount = 158000
	usNg2 := corridorRecord(now.AddDate(0, 0, -1), "XE", *successResult("XE", 156500, 103, 3))
	usNg2.OfficialAmount = 158000

	usGh := corridorRecord(now, "Wise", *successResult("Wise", 1500, 105, 5))
	usGh.RecipientCountry = "GH"
	usGh.Amount = 200
	usGh.OfficialAmount = 1520

	repo := new(MockComparisonRepository)
	repo.On("RecordsSince", ctx, mock.Anything).Return([]*domain.ComparisonRecord{usNg1, usNg2, usGh}, nil)
	uc := NewDefaultAnalyticsUsecase(repo)

	corridors, err := uc.CorridorAnalytics(ctx, 30)

	require.NoError(t, err)
	require.Len(t, corridors, 2)

	usNg := corridors[0]
	assert.Equal(t, "US", usNg.SenderCountry)
	assert.Equal(t, "NG", usNg.RecipientCountry)
	assert.Equal(t, int64(2), usNg.TotalComparisons)
	assert.Equal(t, 1, usNg.PopularityRank)
	assert.Equal(t, 100.0, usNg.AverageAmount)
	// Each winner won once; the alphabetical tie-break picks Wise over XE.
	assert.Equal(t, "Wise", usNg.BestPlatform)
	assert.InDelta(t, ((157500.0-158000)+(156500.0-158000))/2, usNg.AverageSavings, 1e-9)
	assert.InDelta(t, 500.0, usNg.VolatilityScore, 1e-9)
	assert.Equal(t, now, usNg.LastCompared)

	gh := corridors[1]
	assert.Equal(t, "GH", gh.RecipientCountry)
	assert.Equal(t, int64(1), gh.TotalComparisons)
	assert.Equal(t, 2, gh.PopularityRank)
	assert.Equal(t, 0.0, gh.VolatilityScore)
}

func TestTrendAnalysis(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Improving series with full confidence", func(t *testing.T) {
		// Newest-first records give Wise the chronological series
		// 100 -> 110 -> 120, a perfect line.
		records := []*domain.ComparisonRecord{
			corridorRecord(now, "Wise", *successResult("Wise", 120, 105, 5), *successResult("XE", 200, 103, 3)),
			corridorRecord(now.AddDate(0, 0, -1), "Wise", *successResult("Wise", 110, 105, 5)),
			corridorRecord(now.AddDate(0, 0, -2), "Wise", *successResult("Wise", 100, 105, 5)),
		}

		repo := new(MockComparisonRepository)
		repo.On("HistoricalRecords", ctx, "US", "NG", mock.Anything).Return(records, nil)
		uc := NewDefaultAnalyticsUsecase(repo)

		trends, err := uc.TrendAnalysis(ctx, "US", "NG", []string{"7d"})

		require.NoError(t, err)
		// XE only has a single point and is skipped.
		require.Len(t, trends, 1)
		trend := trends[0]
		assert.Equal(t, "Wise", trend.Platform)
		assert.Equal(t, "7d", trend.Period)
		assert.Equal(t, 100.0, trend.StartRate)
		assert.Equal(t, 120.0, trend.EndRate)
		assert.InDelta(t, 20.0, trend.ChangePercentage, 1e-9)
		assert.Equal(t, domain.TrendImproving, trend.Direction)
		assert.InDelta(t, 100.0, trend.Confidence, 1e-6)
	})

	t.Run("Two points have zero confidence", func(t *testing.T) {
		records := []*domain.ComparisonRecord{
			corridorRecord(now, "Wise", *successResult("Wise", 90, 105, 5)),
			corridorRecord(now.AddDate(0, 0, -1), "Wise", *successResult("Wise", 100, 105, 5)),
		}

		repo := new(MockComparisonRepository)
		repo.On("HistoricalRecords", ctx, "US", "NG", mock.Anything).Return(records, nil)
		uc := NewDefaultAnalyticsUsecase(repo)

		trends, err := uc.TrendAnalysis(ctx, "US", "NG", []string{"7d"})

		require.NoError(t, err)
		require.Len(t, trends, 1)
		assert.Equal(t, domain.TrendDeclining, trends[0].Direction)
		assert.Equal(t, 0.0, trends[0].Confidence)
	})
}

func TestDailySummary(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	t.Run("Empty day yields explicit zero summary", func(t *testing.T) {
		repo := new(MockComparisonRepository)
		repo.On("RecordsForDay", ctx, day).Return([]*domain.ComparisonRecord{}, nil)
		uc := NewDefaultAnalyticsUsecase(repo)

		summary, err := uc.DailySummary(ctx, day)

		require.NoError(t, err)
		assert.Equal(t, "2026-08-29", summary.Date)
		assert.Equal(t, 0, summary.TotalComparisons)
		assert.Equal(t, "No comparisons recorded for this date", summary.Summary)
		assert.NotNil(t, summary.PlatformPerformance)
		assert.NotNil(t, summary.TopCorridors)
	})

	t.Run("Aggregates corridors and winners", func(t *testing.T) {
		r1 := corridorRecord(day, "Wise", *successResult("Wise", 157500, 105, 5))
		r2 := corridorRecord(day, "Wise", *successResult("Wise", 157500, 105, 5))
		r3 := corridorRecord(day, "XE", *successResult("XE", 1500, 103, 3))
		r3.RecipientCountry = "GH"
		r3.Amount = 400

		repo := new(MockComparisonRepository)
		repo.On("RecordsForDay", ctx, day).Return([]*domain.ComparisonRecord{r1, r2, r3}, nil)
		uc := NewDefaultAnalyticsUsecase(repo)

		summary, err := uc.DailySummary(ctx, day)

		require.NoError(t, err)
		assert.Equal(t, 3, summary.TotalComparisons)
		assert.Equal(t, 2, summary.UniqueCorridors)
		assert.Equal(t, 200.0, summary.AverageAmount)
		assert.Equal(t, map[string]int{"Wise": 2, "XE": 1}, summary.PlatformPerformance)
		require.Len(t, summary.TopCorridors, 2)
		assert.Equal(t, domain.CorridorCount{Corridor: "US-NG", Comparisons: 2}, summary.TopCorridors[0])
		assert.Equal(t, "3 comparisons across 2 corridors, average amount 200.00", summary.Summary)
	})
}

func TestTrendDirection(t *testing.T) {
	assert.Equal(t, domain.TrendImproving, trendDirection([]float64{100, 100, 100, 100, 130, 130}))
	assert.Equal(t, domain.TrendDeclining, trendDirection([]float64{130, 130, 100, 100}))
	assert.Equal(t, domain.TrendStable, trendDirection([]float64{100, 101, 100, 99, 100}))
	assert.Equal(t, domain.TrendStable, trendDirection([]float64{100}))
	assert.Equal(t, domain.TrendStable, trendDirection(nil))
}

func TestParsePeriodDays(t *testing.T) {
	assert.Equal(t, 7, parsePeriodDays("7d"))
	assert.Equal(t, 14, parsePeriodDays("2w"))
	assert.Equal(t, 90, parsePeriodDays("90D"))
	assert.Equal(t, 30, parsePeriodDays(""))
	assert.Equal(t, 30, parsePeriodDays("monthly"))
	assert.Equal(t, 30, parsePeriodDays("0d"))
	assert.Equal(t, 30, parsePeriodDays("-5d"))
}

func TestRSquared(t *testing.T) {
	assert.InDelta(t, 1.0, rSquared([]float64{100, 110, 120, 130}), 1e-9)
	assert.Equal(t, 0.0, rSquared([]float64{100, 100, 100}))
	assert.Equal(t, 0.0, rSquared([]float64{100}))
}
