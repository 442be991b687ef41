package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/remitip/rates-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockComparisonRepository is a mock implementation of the comparison store
type MockComparisonRepository struct {
	mock.Mock
}

func (m *MockComparisonRepository) SaveComparison(ctx context.Context, record *domain.ComparisonRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockComparisonRepository) HasComparisonToday(ctx context.Context, senderCountry, recipientCountry string) (bool, error) {
	args := m.Called(ctx, senderCountry, recipientCountry)
	return args.Bool(0), args.Error(1)
}

func (m *MockComparisonRepository) HistoricalRecords(ctx context.Context, senderCountry, recipientCountry string, since time.Time) ([]*domain.ComparisonRecord, error) {
	args := m.Called(ctx, senderCountry, recipientCountry, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ComparisonRecord), args.Error(1)
}

func (m *MockComparisonRepository) RecordsSince(ctx context.Context, since time.Time) ([]*domain.ComparisonRecord, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ComparisonRecord), args.Error(1)
}

func (m *MockComparisonRepository) RecordsForDay(ctx context.Context, day time.Time) ([]*domain.ComparisonRecord, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ComparisonRecord), args.Error(1)
}

func (m *MockComparisonRepository) CorridorSummaries(ctx context.Context, since time.Time) ([]*domain.CorridorSummary, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CorridorSummary), args.Error(1)
}

func (m *MockComparisonRepository) CountForCorridor(ctx context.Context, senderCountry, recipientCountry string) (int64, error) {
	args := m.Called(ctx, senderCountry, recipientCountry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockComparisonRepository) OldestRecord(ctx context.Context, senderCountry, recipientCountry string) (*time.Time, error) {
	args := m.Called(ctx, senderCountry, recipientCountry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockComparisonRepository) NewestRecord(ctx context.Context, senderCountry, recipientCountry string) (*time.Time, error) {
	args := m.Called(ctx, senderCountry, recipientCountry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockComparisonRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPerformanceRepository struct {
	mock.Mock
}

func (m *MockPerformanceRepository) UpsertPerformance(ctx context.Context, platformName, senderCountry, recipientCountry string, delta domain.PerformanceDelta) error {
	args := m.Called(ctx, platformName, senderCountry, recipientCountry, delta)
	return args.Error(0)
}

func (m *MockPerformanceRepository) Leaderboard(ctx context.Context, senderCountry, recipientCountry string, since time.Time) ([]*domain.PlatformPerformanceRecord, error) {
	args := m.Called(ctx, senderCountry, recipientCountry, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PlatformPerformanceRecord), args.Error(1)
}

type MockUsageLogRepository struct {
	mock.Mock
}

func (m *MockUsageLogRepository) LogUsage(ctx context.Context, entry *domain.APIUsageEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockOfficialRateClient struct {
	mock.Mock
}

func (m *MockOfficialRateClient) GetOfficialRate(ctx context.Context, fromCurrency, toCurrency string, amount float64) (*domain.OfficialRate, error) {
	args := m.Called(ctx, fromCurrency, toCurrency, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfficialRate), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishComparison(event domain.ComparisonEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// stubAdapter is a canned platform adapter for aggregation tests.
type stubAdapter struct {
	name   string
	result *domain.RateQuoteResult
	err    error
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) GetRate(ctx context.Context, req *domain.RateQuoteRequest) (*domain.RateQuoteResult, error) {
	return s.result, s.err
}

func successResult(platform string, receive, totalCost, fees float64) *domain.RateQuoteResult {
	return &domain.RateQuoteResult{
		Platform:       platform,
		SendAmount:     100,
		ReceiveAmount:  receive,
		ExchangeRate:   receive / 100,
		Fees:           fees,
		TotalCost:      totalCost,
		ResponseTimeMs: 120,
		Success:        true,
	}
}

func newTestUsecase(adapters []domain.PlatformAdapter) (*DefaultComparisonUsecase, *MockComparisonRepository, *MockPerformanceRepository, *MockUsageLogRepository, *MockOfficialRateClient) {
	enabled := make(map[string]bool, len(adapters))
	for _, adapter := range adapters {
		enabled[adapter.Name()] = true
	}
	registry := NewPlatformRegistry(adapters, enabled, nil)

	comparisonRepo := new(MockComparisonRepository)
	performanceRepo := new(MockPerformanceRepository)
	usageLogRepo := new(MockUsageLogRepository)
	officialClient := new(MockOfficialRateClient)

	uc := NewDefaultComparisonUsecase(registry, officialClient, comparisonRepo, performanceRepo, usageLogRepo, nil, nil)
	return uc, comparisonRepo, performanceRepo, usageLogRepo, officialClient
}

func TestSelectWinner(t *testing.T) {
	uc, _, _, _, _ := newTestUsecase(nil)

	t.Run("Highest receive amount wins", func(t *testing.T) {
		winner := uc.SelectWinner([]*domain.RateQuoteResult{
			successResult("A", 157500, 105, 5),
			successResult("B", 156800, 103, 3),
		})
		require.NotNil(t, winner)
		assert.Equal(t, "A", winner.Platform)
	})

	t.Run("Receive tie broken by total cost", func(t *testing.T) {
		winner := uc.SelectWinner([]*domain.RateQuoteResult{
			successResult("A", 157500, 105, 5),
			successResult("B", 157500, 103, 3),
		})
		require.NotNil(t, winner)
		assert.Equal(t, "B", winner.Platform)
	})

	t.Run("Cost tie broken by fees", func(t *testing.T) {
		winner := uc.SelectWinner([]*domain.RateQuoteResult{
			successResult("A", 157500, 105, 5),
			successResult("B", 157500, 105, 3),
		})
		require.NotNil(t, winner)
		assert.Equal(t, "B", winner.Platform)
	})

	t.Run("Full tie keeps first encountered", func(t *testing.T) {
		winner := uc.SelectWinner([]*domain.RateQuoteResult{
			successResult("A", 157500, 105, 5),
			successResult("B", 157500, 105, 5),
		})
		require.NotNil(t, winner)
		assert.Equal(t, "A", winner.Platform)
	})

	t.Run("No successful results", func(t *testing.T) {
		failed := successResult("A", 0, 100, 0)
		failed.Success = false
		assert.Nil(t, uc.SelectWinner([]*domain.RateQuoteResult{failed}))
		assert.Nil(t, uc.SelectWinner(nil))
	})
}

func TestComputeMetrics(t *testing.T) {
	uc, _, _, _, _ := newTestUsecase(nil)

	t.Run("Two platform scenario", func(t *testing.T) {
		official := &domain.OfficialRate{ConversionRate: 1580}
		m := uc.ComputeMetrics([]*domain.RateQuoteResult{
			successResult("A", 157500, 105, 5),
			successResult("B", 156800, 103, 3),
		}, official)

		assert.Equal(t, 157150.0, m.AverageReceiveAmount)
		assert.Equal(t, 2, m.PlatformCount)
		assert.Equal(t, 157500.0, m.BestReceiveAmount)
		assert.Equal(t, 156800.0, m.WorstReceiveAmount)
		assert.Equal(t, 4.0, m.AverageFees)
		assert.InDelta(t, (157500.0-156800.0)/157500.0*100, m.SpreadPercentage, 1e-9)
		assert.InDelta(t, (1571.5-1580.0)/1580.0*100, m.OfficialRateComparison, 1e-9)
	})

	t.Run("Single result has zero spread", func(t *testing.T) {
		m := uc.ComputeMetrics([]*domain.RateQuoteResult{
			successResult("A", 157500, 105, 5),
		}, nil)
		assert.Equal(t, 0.0, m.SpreadPercentage)
		assert.Equal(t, 1, m.PlatformCount)
	})

	t.Run("No successful results yields zero metrics", func(t *testing.T) {
		failed := successResult("A", 0, 100, 0)
		failed.Success = false
		m := uc.ComputeMetrics([]*domain.RateQuoteResult{failed}, &domain.OfficialRate{ConversionRate: 1580})
		assert.Equal(t, domain.ComparisonMetrics{}, m)
	})
}

func TestGetAllRates(t *testing.T) {
	ctx := context.Background()
	req := &domain.RateQuoteRequest{SenderCountry: "US", RecipientCountry: "NG", Amount: 100}

	t.Run("Sorts successes and isolates failures", func(t *testing.T) {
		adapters := []domain.PlatformAdapter{
			&stubAdapter{name: "Low", result: successResult("Low", 156800, 103, 3)},
			&stubAdapter{name: "High", result: successResult("High", 157500, 105, 5)},
			&stubAdapter{name: "Broken", err: errors.New("connection reset")},
			&stubAdapter{name: "NoQuote"},
		}
		uc, _, performanceRepo, _, _ := newTestUsecase(adapters)
		performanceRepo.On("UpsertPerformance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		results, err := uc.GetAllRates(ctx, req)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "High", results[0].Platform)
		assert.Equal(t, "Low", results[1].Platform)

		// Raw pass for all four adapters plus the rank-aware pass for the
		// two successful ones.
		assert.Len(t, performanceRepo.Calls, 6)
	})

	t.Run("Rank-aware pass marks the winner", func(t *testing.T) {
		adapters := []domain.PlatformAdapter{
			&stubAdapter{name: "High", result: successResult("High", 157500, 105, 5)},
			&stubAdapter{name: "Low", result: successResult("Low", 156800, 103, 3)},
		}
		uc, _, performanceRepo, _, _ := newTestUsecase(adapters)
		performanceRepo.On("UpsertPerformance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.MatchedBy(func(delta domain.PerformanceDelta) bool {
			return delta.Rank == 0
		})).Return(nil)
		performanceRepo.On("UpsertPerformance", mock.Anything, "High", mock.Anything, mock.Anything, mock.MatchedBy(func(delta domain.PerformanceDelta) bool {
			return delta.Rank == 1 && delta.IsWinner
		})).Return(nil).Once()
		performanceRepo.On("UpsertPerformance", mock.Anything, "Low", mock.Anything, mock.Anything, mock.MatchedBy(func(delta domain.PerformanceDelta) bool {
			return delta.Rank == 2 && !delta.IsWinner
		})).Return(nil).Once()

		_, err := uc.GetAllRates(ctx, req)

		require.NoError(t, err)
		performanceRepo.AssertExpectations(t)
	})

	t.Run("No reachable adapters yields empty list", func(t *testing.T) {
		uc, _, _, _, _ := newTestUsecase(nil)
		results, err := uc.GetAllRates(ctx, req)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestCompareRates(t *testing.T) {
	ctx := context.Background()
	req := &domain.RateQuoteRequest{SenderCountry: "US", RecipientCountry: "NG", Amount: 100}
	official := &domain.OfficialRate{
		BaseCurrency:    "USD",
		TargetCurrency:  "NGN",
		ConversionRate:  1580,
		ConvertedAmount: 158000,
	}

	t.Run("Full payload with winner and persisted record", func(t *testing.T) {
		adapters := []domain.PlatformAdapter{
			&stubAdapter{name: "High", result: successResult("High", 157500, 105, 5)},
			&stubAdapter{name: "Low", result: successResult("Low", 156800, 103, 3)},
		}
		uc, comparisonRepo, performanceRepo, usageLogRepo, officialClient := newTestUsecase(adapters)

		officialClient.On("GetOfficialRate", ctx, "USD", "NGN", 100.0).Return(official, nil)
		performanceRepo.On("UpsertPerformance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		comparisonRepo.On("HasComparisonToday", ctx, "US", "NG").Return(false, nil)
		comparisonRepo.On("SaveComparison", ctx, mock.MatchedBy(func(record *domain.ComparisonRecord) bool {
			return record.WinnerPlatform == "High" &&
				record.BestReceiveAmount == 157500 &&
				record.PlatformCount == 2 &&
				len(record.PlatformResults) == 2 &&
				record.ExpiresAt.Sub(record.CreatedAt) == domain.ComparisonExpiry
		})).Return(nil)
		usageLogRepo.On("LogUsage", ctx, mock.MatchedBy(func(entry *domain.APIUsageEntry) bool {
			return entry.StatusCode == 200 && entry.PlatformsQueried == 2 && entry.SuccessfulPlatforms == 2
		})).Return(nil)

		comparison, err := uc.CompareRates(ctx, req)

		require.NoError(t, err)
		require.NotNil(t, comparison.Winner)
		assert.Equal(t, "High", comparison.Winner.Platform)
		assert.Equal(t, 157150.0, comparison.Metrics.AverageReceiveAmount)
		assert.Equal(t, "USD", comparison.SendingCurrencyCode)
		assert.Equal(t, "NGN", comparison.RecipientCurrencyCode)
		assert.Nil(t, comparison.HistoricalData)
		comparisonRepo.AssertExpectations(t)
		usageLogRepo.AssertExpectations(t)
	})

	t.Run("Official rate failure is fatal and still logged", func(t *testing.T) {
		uc, _, _, usageLogRepo, officialClient := newTestUsecase(nil)

		officialClient.On("GetOfficialRate", ctx, "USD", "NGN", 100.0).Return(nil, domain.ErrNoOfficialRate)
		usageLogRepo.On("LogUsage", ctx, mock.MatchedBy(func(entry *domain.APIUsageEntry) bool {
			return entry.StatusCode == 500 && entry.PlatformsQueried == 0 && entry.SuccessfulPlatforms == 0
		})).Return(nil)

		comparison, err := uc.CompareRates(ctx, req)

		assert.Nil(t, comparison)
		assert.ErrorIs(t, err, domain.ErrComparisonFailed)
		usageLogRepo.AssertExpectations(t)
	})

	t.Run("Skips persisting when today's record exists", func(t *testing.T) {
		adapters := []domain.PlatformAdapter{
			&stubAdapter{name: "High", result: successResult("High", 157500, 105, 5)},
		}
		uc, comparisonRepo, performanceRepo, usageLogRepo, officialClient := newTestUsecase(adapters)

		officialClient.On("GetOfficialRate", ctx, "USD", "NGN", 100.0).Return(official, nil)
		performanceRepo.On("UpsertPerformance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		comparisonRepo.On("HasComparisonToday", ctx, "US", "NG").Return(true, nil)
		usageLogRepo.On("LogUsage", ctx, mock.Anything).Return(nil)

		// SaveComparison is deliberately not stubbed: calling it would fail
		// the test.
		comparison, err := uc.CompareRates(ctx, req)

		require.NoError(t, err)
		assert.NotNil(t, comparison)
		comparisonRepo.AssertExpectations(t)
	})

	t.Run("Publishes comparison event", func(t *testing.T) {
		adapters := []domain.PlatformAdapter{
			&stubAdapter{name: "High", result: successResult("High", 157500, 105, 5)},
		}
		uc, comparisonRepo, performanceRepo, usageLogRepo, officialClient := newTestUsecase(adapters)
		publisher := new(MockEventPublisher)
		uc.Publisher = publisher

		officialClient.On("GetOfficialRate", ctx, "USD", "NGN", 100.0).Return(official, nil)
		performanceRepo.On("UpsertPerformance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		comparisonRepo.On("HasComparisonToday", ctx, "US", "NG").Return(true, nil)
		usageLogRepo.On("LogUsage", ctx, mock.Anything).Return(nil)
		publisher.On("PublishComparison", mock.MatchedBy(func(event domain.ComparisonEvent) bool {
			return event.WinnerPlatform == "High" && event.SenderCountry == "US" && event.RecipientCountry == "NG"
		})).Return(nil)

		_, err := uc.CompareRates(ctx, req)

		require.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("Assembles historical payload when requested", func(t *testing.T) {
		adapters := []domain.PlatformAdapter{
			&stubAdapter{name: "High", result: successResult("High", 157500, 105, 5)},
		}
		uc, comparisonRepo, performanceRepo, usageLogRepo, officialClient := newTestUsecase(adapters)

		oldest := time.Now().UTC().AddDate(0, 0, -20)
		newest := time.Now().UTC()
		history := []*domain.ComparisonRecord{
			{
				WinnerPlatform:  "High",
				PlatformResults: []domain.RateQuoteResult{*successResult("High", 157500, 105, 5)},
				CreatedAt:       newest,
			},
		}

		officialClient.On("GetOfficialRate", ctx, "USD", "NGN", 100.0).Return(official, nil)
		performanceRepo.On("UpsertPerformance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		performanceRepo.On("Leaderboard", ctx, "US", "NG", mock.Anything).Return([]*domain.PlatformPerformanceRecord{{PlatformName: "High"}}, nil)
		comparisonRepo.On("HistoricalRecords", ctx, "US", "NG", mock.Anything).Return(history, nil)
		comparisonRepo.On("CountForCorridor", ctx, "US", "NG").Return(int64(21), nil)
		comparisonRepo.On("OldestRecord", ctx, "US", "NG").Return(&oldest, nil)
		comparisonRepo.On("NewestRecord", ctx, "US", "NG").Return(&newest, nil)
		comparisonRepo.On("HasComparisonToday", ctx, "US", "NG").Return(true, nil)
		usageLogRepo.On("LogUsage", ctx, mock.Anything).Return(nil)

		historicalReq := &domain.RateQuoteRequest{SenderCountry: "US", RecipientCountry: "NG", Amount: 100, FetchHistoricalData: true}
		comparison, err := uc.CompareRates(ctx, historicalReq)

		require.NoError(t, err)
		require.NotNil(t, comparison.HistoricalData)
		assert.Len(t, comparison.HistoricalData.Periods, 4)
		require.Contains(t, comparison.HistoricalData.Periods, "7d")
		assert.Equal(t, 1, comparison.HistoricalData.Periods["7d"].TotalComparisons)
		assert.Equal(t, int64(21), comparison.HistoricalData.Summary.TotalHistoricalRecords)
		assert.Equal(t, &oldest, comparison.HistoricalData.Summary.OldestRecord)
	})
}

func TestHealthCheck(t *testing.T) {
	adapters := []domain.PlatformAdapter{
		&stubAdapter{name: "Healthy", result: successResult("Healthy", 157500, 105, 5)},
		&stubAdapter{name: "Failing", result: &domain.RateQuoteResult{Platform: "Failing", Success: false, Error: "down"}},
		&stubAdapter{name: "Erroring", err: errors.New("boom")},
	}
	uc, _, _, _, _ := newTestUsecase(adapters)

	health := uc.HealthCheck(context.Background())

	assert.Equal(t, map[string]bool{
		"Healthy":  true,
		"Failing":  false,
		"Erroring": false,
	}, health)
}
