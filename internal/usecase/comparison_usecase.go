package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/jaevor/go-nanoid"
	"github.com/remitip/rates-service/internal/domain"
	"github.com/remitip/rates-service/internal/infrastructure/metrics"
)

const (
	compareEndpoint = "/api/v1/exchange-rates/compare"

	healthProbeSender    = "US"
	healthProbeRecipient = "NG"
	healthProbeAmount    = 100
)

var newRequestID func() string

func init() {
	gen, err := gonanoid.Standard(15)
	if err != nil {
		panic(err)
	}
	newRequestID = gen
}

type DefaultComparisonUsecase struct {
	Registry        *PlatformRegistry
	OfficialClient  domain.OfficialRateClient
	ComparisonRepo  domain.ComparisonRepository
	PerformanceRepo domain.PerformanceRepository
	UsageLogRepo    domain.UsageLogRepository
	Publisher       domain.EventPublisher
	Metrics         *metrics.RateMetrics
}

func NewDefaultComparisonUsecase(
	registry *PlatformRegistry,
	officialClient domain.OfficialRateClient,
	comparisonRepo domain.ComparisonRepository,
	performanceRepo domain.PerformanceRepository,
	usageLogRepo domain.UsageLogRepository,
	publisher domain.EventPublisher,
	rateMetrics *metrics.RateMetrics,
) *DefaultComparisonUsecase {
	return &DefaultComparisonUsecase{
		Registry:        registry,
		OfficialClient:  officialClient,
		ComparisonRepo:  comparisonRepo,
		PerformanceRepo: performanceRepo,
		UsageLogRepo:    usageLogRepo,
		Publisher:       publisher,
		Metrics:         rateMetrics,
	}
}

// availableAdapters resolves the enabled-and-unrestricted set for a corridor.
func (uc *DefaultComparisonUsecase) availableAdapters(req *domain.RateQuoteRequest) []domain.PlatformAdapter {
	adapters := make([]domain.PlatformAdapter, 0)
	for _, adapter := range uc.Registry.EnabledAdapters() {
		if uc.Registry.IsRestricted(adapter.Name(), req) {
			continue
		}
		adapters = append(adapters, adapter)
	}
	return adapters
}

// GetAllRates fans the request out to every reachable adapter concurrently,
// waits for all of them to settle, and returns the successful results sorted
// descending by receive amount. One adapter failing, panicking or timing out
// never cancels or delays the others.
func (uc *DefaultComparisonUsecase) GetAllRates(ctx context.Context, req *domain.RateQuoteRequest) ([]*domain.RateQuoteResult, error) {
	adapters := uc.availableAdapters(req)

	results := make([]*domain.RateQuoteResult, len(adapters))
	var wg sync.WaitGroup
	for i, adapter := range adapters {
		wg.Add(1)
		go func(i int, adapter domain.PlatformAdapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("platform adapter panicked",
						"platform", adapter.Name(), "panic", r)
					results[i] = failureResult(adapter.Name(), req, fmt.Sprintf("internal adapter error: %v", r))
				}
			}()

			result, err := adapter.GetRate(ctx, req)
			if err != nil {
				result = failureResult(adapter.Name(), req, err.Error())
			}
			results[i] = result
		}(i, adapter)
	}
	wg.Wait()

	// Raw performance pass: every settled invocation gets an update, quote
	// or not. A nil result counts as an unsuccessful probe.
	for i, adapter := range adapters {
		delta := domain.PerformanceDelta{}
		if result := results[i]; result != nil {
			delta.Success = result.Success
			delta.ResponseTimeMs = result.ResponseTimeMs
		}
		uc.recordPerformance(ctx, adapter.Name(), req, delta)
		if uc.Metrics != nil {
			uc.Metrics.RecordPlatformQuote(adapter.Name(), delta.Success, float64(delta.ResponseTimeMs)/1000)
		}
	}

	successful := make([]*domain.RateQuoteResult, 0, len(results))
	for _, result := range results {
		if result != nil && result.Success {
			successful = append(successful, result)
		}
	}

	sort.Slice(successful, func(i, j int) bool {
		return successful[i].ReceiveAmount > successful[j].ReceiveAmount
	})

	// Rank-aware second pass over the sorted set.
	for rank, result := range successful {
		uc.recordPerformance(ctx, result.Platform, req, domain.PerformanceDelta{
			Success:        true,
			ResponseTimeMs: result.ResponseTimeMs,
			Rank:           rank + 1,
			IsWinner:       rank == 0,
		})
	}

	return successful, nil
}

func (uc *DefaultComparisonUsecase) recordPerformance(ctx context.Context, platform string, req *domain.RateQuoteRequest, delta domain.PerformanceDelta) {
	if err := uc.PerformanceRepo.UpsertPerformance(ctx, platform, req.SenderCountry, req.RecipientCountry, delta); err != nil {
		slog.Error("failed to upsert platform performance",
			"platform", platform,
			"senderCountry", req.SenderCountry,
			"recipientCountry", req.RecipientCountry,
			"error", err)
	}
}

func failureResult(platform string, req *domain.RateQuoteRequest, message string) *domain.RateQuoteResult {
	return &domain.RateQuoteResult{
		Platform:   platform,
		SendAmount: req.Amount,
		TotalCost:  req.Amount,
		Success:    false,
		Error:      message,
	}
}

// SelectWinner picks the best successful result: highest receive amount,
// ties broken by lowest total cost, then lowest fees, then first encountered.
func (uc *DefaultComparisonUsecase) SelectWinner(results []*domain.RateQuoteResult) *domain.RateQuoteResult {
	var winner *domain.RateQuoteResult
	for _, result := range results {
		if !result.Success {
			continue
		}
		if winner == nil {
			winner = result
			continue
		}
		switch {
		case result.ReceiveAmount > winner.ReceiveAmount:
			winner = result
		case result.ReceiveAmount == winner.ReceiveAmount && result.TotalCost < winner.TotalCost:
			winner = result
		case result.ReceiveAmount == winner.ReceiveAmount && result.TotalCost == winner.TotalCost && result.Fees < winner.Fees:
			winner = result
		}
	}
	return winner
}

// ComputeMetrics aggregates the successful results against the official
// rate. Everything is zero when no platform succeeded.
func (uc *DefaultComparisonUsecase) ComputeMetrics(results []*domain.RateQuoteResult, official *domain.OfficialRate) domain.ComparisonMetrics {
	successful := make([]*domain.RateQuoteResult, 0, len(results))
	for _, result := range results {
		if result.Success {
			successful = append(successful, result)
		}
	}
	if len(successful) == 0 {
		return domain.ComparisonMetrics{}
	}

	var sumReceive, sumRate, sumFees float64
	best := successful[0].ReceiveAmount
	worst := successful[0].ReceiveAmount
	for _, result := range successful {
		sumReceive += result.ReceiveAmount
		sumRate += result.ExchangeRate
		sumFees += result.Fees
		if result.ReceiveAmount > best {
			best = result.ReceiveAmount
		}
		if result.ReceiveAmount < worst {
			worst = result.ReceiveAmount
		}
	}

	count := float64(len(successful))
	m := domain.ComparisonMetrics{
		AverageReceiveAmount: sumReceive / count,
		AverageExchangeRate:  sumRate / count,
		AverageFees:          sumFees / count,
		BestReceiveAmount:    best,
		WorstReceiveAmount:   worst,
		PlatformCount:        len(successful),
	}
	if best != 0 {
		m.SpreadPercentage = (best - worst) / best * 100
	}
	if official != nil && official.ConversionRate != 0 {
		m.OfficialRateComparison = (m.AverageExchangeRate - official.ConversionRate) / official.ConversionRate * 100
	}
	return m
}

// CompareRates runs the full orchestration. Whatever happens, exactly one
// usage-log entry is written; failures surface as the generic comparison
// error with the cause logged.
func (uc *DefaultComparisonUsecase) CompareRates(ctx context.Context, req *domain.RateQuoteRequest) (*domain.Comparison, error) {
	start := time.Now()
	corridor := fmt.Sprintf("%s-%s", req.SenderCountry, req.RecipientCountry)

	comparison, err := uc.compare(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		slog.Error("rate comparison failed",
			"senderCountry", req.SenderCountry,
			"recipientCountry", req.RecipientCountry,
			"amount", req.Amount,
			"error", err)
		uc.logUsage(ctx, req, 500, elapsed.Milliseconds(), 0, 0)
		if uc.Metrics != nil {
			uc.Metrics.RecordComparison(corridor, "error", elapsed.Seconds())
		}
		return nil, domain.ErrComparisonFailed
	}

	comparison.ResponseTimeMs = elapsed.Milliseconds()
	uc.logUsage(ctx, req, 200, elapsed.Milliseconds(), len(uc.availableAdapters(req)), len(comparison.Platforms))

	if uc.Metrics != nil {
		uc.Metrics.RecordComparison(corridor, "success", elapsed.Seconds())
		if comparison.Winner != nil {
			uc.Metrics.RecordWinner(comparison.Winner.Platform)
		}
	}
	uc.publishEvent(comparison, req)

	return comparison, nil
}

func (uc *DefaultComparisonUsecase) compare(ctx context.Context, req *domain.RateQuoteRequest) (*domain.Comparison, error) {
	senderCurrency := domain.CurrencyForCountry(req.SenderCountry)
	recipientCurrency := domain.CurrencyForCountry(req.RecipientCountry)

	official, err := uc.OfficialClient.GetOfficialRate(ctx, senderCurrency, recipientCurrency, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("official rate %s->%s: %w", senderCurrency, recipientCurrency, err)
	}

	results, err := uc.GetAllRates(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("aggregate platform rates: %w", err)
	}

	winner := uc.SelectWinner(results)
	comparisonMetrics := uc.ComputeMetrics(results, official)

	comparison := &domain.Comparison{
		SenderCountry:         req.SenderCountry,
		SendingAmount:         req.Amount,
		SendingCurrencyCode:   senderCurrency,
		RecipientCountry:      req.RecipientCountry,
		RecipientCurrencyCode: recipientCurrency,
		OfficialExchangeRate:  official,
		Platforms:             results,
		Winner:                winner,
		Metrics:               comparisonMetrics,
		Timestamp:             time.Now().UTC(),
	}

	if req.FetchHistoricalData {
		comparison.HistoricalData = uc.buildHistoricalData(ctx, req)
	}

	uc.persistComparison(ctx, req, comparison, senderCurrency, recipientCurrency)

	return comparison, nil
}

// persistComparison writes at most one record per corridor per calendar day.
// Persistence failures are logged, never propagated.
func (uc *DefaultComparisonUsecase) persistComparison(ctx context.Context, req *domain.RateQuoteRequest, comparison *domain.Comparison, senderCurrency, recipientCurrency string) {
	exists, err := uc.ComparisonRepo.HasComparisonToday(ctx, req.SenderCountry, req.RecipientCountry)
	if err != nil {
		slog.Error("failed to check today's comparison",
			"senderCountry", req.SenderCountry,
			"recipientCountry", req.RecipientCountry,
			"error", err)
		return
	}
	if exists {
		slog.Debug("comparison already recorded today, skipping persist",
			"senderCountry", req.SenderCountry,
			"recipientCountry", req.RecipientCountry)
		return
	}

	now := time.Now().UTC()
	record := &domain.ComparisonRecord{
		ID:                uuid.NewString(),
		SenderCountry:     req.SenderCountry,
		RecipientCountry:  req.RecipientCountry,
		SenderCurrency:    senderCurrency,
		RecipientCurrency: recipientCurrency,
		Amount:            req.Amount,
		OfficialRate:      comparison.OfficialExchangeRate.ConversionRate,
		OfficialAmount:    comparison.OfficialExchangeRate.ConvertedAmount,
		AverageRate:       comparison.Metrics.AverageExchangeRate,
		RateVariancePct:   comparison.Metrics.SpreadPercentage,
		PlatformCount:     comparison.Metrics.PlatformCount,
		CreatedAt:         now,
		ExpiresAt:         now.Add(domain.ComparisonExpiry),
	}
	for _, result := range comparison.Platforms {
		record.PlatformResults = append(record.PlatformResults, *result)
	}
	if comparison.Winner != nil {
		record.WinnerPlatform = comparison.Winner.Platform
		record.BestReceiveAmount = comparison.Winner.ReceiveAmount
		record.BestExchangeRate = comparison.Winner.ExchangeRate
	}

	if err := uc.ComparisonRepo.SaveComparison(ctx, record); err != nil {
		// Two concurrent requests can both pass the existence check; the
		// unique index turns the loser into a duplicate, which is fine.
		if errors.Is(err, domain.ErrDuplicateComparison) {
			return
		}
		slog.Error("failed to save comparison record",
			"senderCountry", req.SenderCountry,
			"recipientCountry", req.RecipientCountry,
			"error", err)
	}
}

func (uc *DefaultComparisonUsecase) logUsage(ctx context.Context, req *domain.RateQuoteRequest, statusCode int, elapsedMs int64, queried, successful int) {
	entry := &domain.APIUsageEntry{
		RequestID:           newRequestID(),
		Endpoint:            compareEndpoint,
		Method:              "GET",
		SenderCountry:       req.SenderCountry,
		RecipientCountry:    req.RecipientCountry,
		Amount:              req.Amount,
		FetchHistoricalData: req.FetchHistoricalData,
		StatusCode:          statusCode,
		ResponseTimeMs:      elapsedMs,
		PlatformsQueried:    queried,
		SuccessfulPlatforms: successful,
		RequestedAt:         time.Now().UTC(),
	}
	if err := uc.UsageLogRepo.LogUsage(ctx, entry); err != nil {
		slog.Error("failed to write usage log entry", "requestId", entry.RequestID, "error", err)
	}
}

func (uc *DefaultComparisonUsecase) publishEvent(comparison *domain.Comparison, req *domain.RateQuoteRequest) {
	if uc.Publisher == nil {
		return
	}
	event := domain.ComparisonEvent{
		SenderCountry:    req.SenderCountry,
		RecipientCountry: req.RecipientCountry,
		Amount:           req.Amount,
		PlatformCount:    comparison.Metrics.PlatformCount,
		Timestamp:        comparison.Timestamp,
	}
	if comparison.Winner != nil {
		event.WinnerPlatform = comparison.Winner.Platform
		event.BestReceiveAmount = comparison.Winner.ReceiveAmount
	}
	if err := uc.Publisher.PublishComparison(event); err != nil {
		slog.Error("failed to publish comparison event",
			"senderCountry", req.SenderCountry,
			"recipientCountry", req.RecipientCountry,
			"error", err)
	}
}

// buildHistoricalData assembles the optional 1/7/14/30-day rollup payload.
// Historical reads are best-effort; a failed period is simply omitted.
func (uc *DefaultComparisonUsecase) buildHistoricalData(ctx context.Context, req *domain.RateQuoteRequest) *domain.HistoricalData {
	data := &domain.HistoricalData{
		Periods: make(map[string]*domain.PeriodRollup),
	}

	for _, days := range []int{1, 7, 14, 30} {
		since := time.Now().UTC().AddDate(0, 0, -days)
		records, err := uc.ComparisonRepo.HistoricalRecords(ctx, req.SenderCountry, req.RecipientCountry, since)
		if err != nil {
			slog.Error("failed to load historical records",
				"senderCountry", req.SenderCountry,
				"recipientCountry", req.RecipientCountry,
				"days", days,
				"error", err)
			continue
		}
		data.Periods[fmt.Sprintf("%dd", days)] = buildPeriodRollup(records, days)
	}

	leaderboard, err := uc.PerformanceRepo.Leaderboard(ctx, req.SenderCountry, req.RecipientCountry, time.Now().UTC().AddDate(0, 0, -30))
	if err != nil {
		slog.Error("failed to load performance leaderboard",
			"senderCountry", req.SenderCountry,
			"recipientCountry", req.RecipientCountry,
			"error", err)
	} else {
		data.Leaderboard = leaderboard
	}

	if count, err := uc.ComparisonRepo.CountForCorridor(ctx, req.SenderCountry, req.RecipientCountry); err == nil {
		data.Summary.TotalHistoricalRecords = count
	}
	if oldest, err := uc.ComparisonRepo.OldestRecord(ctx, req.SenderCountry, req.RecipientCountry); err == nil {
		data.Summary.OldestRecord = oldest
	}
	if newest, err := uc.ComparisonRepo.NewestRecord(ctx, req.SenderCountry, req.RecipientCountry); err == nil {
		data.Summary.MostRecentRecord = newest
	}

	return data
}

func buildPeriodRollup(records []*domain.ComparisonRecord, days int) *domain.PeriodRollup {
	rollup := &domain.PeriodRollup{
		AverageRates:     make(map[string]float64),
		TotalComparisons: len(records),
		PeriodDays:       days,
	}

	rateSums := make(map[string]float64)
	rateCounts := make(map[string]int)
	winCounts := make(map[string]int)
	receiveSums := make(map[string]float64)

	// Records arrive newest-first; walk backwards for chronological series.
	series := make(map[string][]float64)
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		for _, result := range record.PlatformResults {
			if !result.Success {
				continue
			}
			rateSums[result.Platform] += result.ExchangeRate
			rateCounts[result.Platform]++
			receiveSums[result.Platform] += result.ReceiveAmount
			series[result.Platform] = append(series[result.Platform], result.ReceiveAmount)
		}
		if record.WinnerPlatform != "" {
			winCounts[record.WinnerPlatform]++
		}
	}

	for platform, sum := range rateSums {
		rollup.AverageRates[platform] = sum / float64(rateCounts[platform])
	}

	for platform, wins := range winCounts {
		performer := domain.PeriodPerformer{
			Platform: platform,
			WinCount: wins,
		}
		if count := rateCounts[platform]; count > 0 {
			performer.AvgReceiveAmount = receiveSums[platform] / float64(count)
		}
		rollup.BestPerformers = append(rollup.BestPerformers, performer)
	}
	sort.Slice(rollup.BestPerformers, func(i, j int) bool {
		return rollup.BestPerformers[i].WinCount > rollup.BestPerformers[j].WinCount
	})

	platforms := make([]string, 0, len(series))
	for platform := range series {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		switch trendDirection(series[platform]) {
		case domain.TrendImproving:
			rollup.Trends.Improving = append(rollup.Trends.Improving, platform)
		case domain.TrendDeclining:
			rollup.Trends.Declining = append(rollup.Trends.Declining, platform)
		default:
			rollup.Trends.Stable = append(rollup.Trends.Stable, platform)
		}
	}

	return rollup
}

// AvailablePlatforms lists the platforms reachable for a corridor.
func (uc *DefaultComparisonUsecase) AvailablePlatforms(senderCountry, recipientCountry string) []string {
	return uc.Registry.AvailablePlatforms(senderCountry, recipientCountry)
}

// HealthCheck probes every enabled adapter on a representative corridor.
func (uc *DefaultComparisonUsecase) HealthCheck(ctx context.Context) map[string]bool {
	probe := &domain.RateQuoteRequest{
		SenderCountry:    healthProbeSender,
		RecipientCountry: healthProbeRecipient,
		Amount:           healthProbeAmount,
	}

	adapters := uc.Registry.EnabledAdapters()
	health := make(map[string]bool, len(adapters))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, adapter := range adapters {
		wg.Add(1)
		go func(adapter domain.PlatformAdapter) {
			defer wg.Done()
			result, err := adapter.GetRate(ctx, probe)
			healthy := err == nil && result != nil && result.Success

			mu.Lock()
			health[adapter.Name()] = healthy
			mu.Unlock()
		}(adapter)
	}
	wg.Wait()

	return health
}
