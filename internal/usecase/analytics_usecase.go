package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/remitip/rates-service/internal/domain"
)

// trendStabilityBand is the absolute percentage change below which a
// receive-amount series counts as stable.
const trendStabilityBand = 2.0

const defaultPeriodDays = 30

type DefaultAnalyticsUsecase struct {
	ComparisonRepo domain.ComparisonRepository
}

func NewDefaultAnalyticsUsecase(comparisonRepo domain.ComparisonRepository) *DefaultAnalyticsUsecase {
	return &DefaultAnalyticsUsecase{ComparisonRepo: comparisonRepo}
}

type platformAccumulator struct {
	comparisons    int
	wins           int
	receiveSum     float64
	rateSum        float64
	feeSum         float64
	responseSum    float64
	receiveAmounts []float64
	lastSeen       time.Time
}

// PlatformAnalytics expands the embedded platform results of each historical
// record on the corridor and derives per-platform win rate, reliability and
// trend. Output is sorted descending by reliability score.
func (uc *DefaultAnalyticsUsecase) PlatformAnalytics(ctx context.Context, senderCountry, recipientCountry string, days int) ([]*domain.PlatformAnalytics, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	records, err := uc.ComparisonRepo.HistoricalRecords(ctx, senderCountry, recipientCountry, since)
	if err != nil {
		return nil, fmt.Errorf("load historical records: %w", err)
	}

	accs := make(map[string]*platformAccumulator)

	// Records arrive newest-first; walk backwards so receive-amount series
	// end up chronological for the trend split.
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		for _, result := range record.PlatformResults {
			if !result.Success {
				continue
			}
			acc, ok := accs[result.Platform]
			if !ok {
				acc = &platformAccumulator{}
				accs[result.Platform] = acc
			}
			acc.comparisons++
			acc.receiveSum += result.ReceiveAmount
			acc.rateSum += result.ExchangeRate
			acc.feeSum += result.Fees
			acc.responseSum += float64(result.ResponseTimeMs)
			acc.receiveAmounts = append(acc.receiveAmounts, result.ReceiveAmount)
			if result.Platform == record.WinnerPlatform {
				acc.wins++
			}
			if record.CreatedAt.After(acc.lastSeen) {
				acc.lastSeen = record.CreatedAt
			}
		}
	}

	out := make([]*domain.PlatformAnalytics, 0, len(accs))
	for platform, acc := range accs {
		count := float64(acc.comparisons)
		winRate := float64(acc.wins) / count * 100
		avgResponse := acc.responseSum / count

		responseTimeScore := math.Max(0, 100-avgResponse/100)
		consistencyScore := math.Max(0, 100-coefficientOfVariation(acc.receiveAmounts)*100)
		reliability := winRate*0.5 + responseTimeScore*0.3 + consistencyScore*0.2

		out = append(out, &domain.PlatformAnalytics{
			Platform:             platform,
			TotalComparisons:     acc.comparisons,
			WinCount:             acc.wins,
			WinRate:              winRate,
			AverageReceiveAmount: acc.receiveSum / count,
			AverageExchangeRate:  acc.rateSum / count,
			AverageFees:          acc.feeSum / count,
			AverageResponseTime:  avgResponse,
			ReliabilityScore:     reliability,
			TrendDirection:       trendDirection(acc.receiveAmounts),
			LastSeen:             acc.lastSeen,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ReliabilityScore > out[j].ReliabilityScore
	})
	return out, nil
}

// CorridorAnalytics groups the window's records by corridor and ranks
// corridors by comparison count.
func (uc *DefaultAnalyticsUsecase) CorridorAnalytics(ctx context.Context, days int) ([]*domain.CorridorAnalytics, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	records, err := uc.ComparisonRepo.RecordsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load records since %s: %w", since.Format("2006-01-02"), err)
	}

	type corridorAccumulator struct {
		sender      string
		recipient   string
		count       int64
		amountSum   float64
		savingsSum  float64
		bestAmounts []float64
		winners     map[string]int
		last        time.Time
	}

	accs := make(map[string]*corridorAccumulator)
	for _, record := range records {
		key := record.SenderCountry + "-" + record.RecipientCountry
		acc, ok := accs[key]
		if !ok {
			acc = &corridorAccumulator{
				sender:    record.SenderCountry,
				recipient: record.RecipientCountry,
				winners:   make(map[string]int),
			}
			accs[key] = acc
		}
		acc.count++
		acc.amountSum += record.Amount
		acc.savingsSum += record.BestReceiveAmount - record.OfficialAmount
		acc.bestAmounts = append(acc.bestAmounts, record.BestReceiveAmount)
		if record.WinnerPlatform != "" {
			acc.winners[record.WinnerPlatform]++
		}
		if record.CreatedAt.After(acc.last) {
			acc.last = record.CreatedAt
		}
	}

	out := make([]*domain.CorridorAnalytics, 0, len(accs))
	for _, acc := range accs {
		bestPlatform := ""
		bestWins := 0
		for platform, wins := range acc.winners {
			if wins > bestWins || (wins == bestWins && (bestPlatform == "" || platform < bestPlatform)) {
				bestPlatform = platform
				bestWins = wins
			}
		}

		out = append(out, &domain.CorridorAnalytics{
			SenderCountry:    acc.sender,
			RecipientCountry: acc.recipient,
			TotalComparisons: acc.count,
			AverageAmount:    acc.amountSum / float64(acc.count),
			BestPlatform:     bestPlatform,
			AverageSavings:   acc.savingsSum / float64(acc.count),
			VolatilityScore:  stddev(acc.bestAmounts),
			LastCompared:     acc.last,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TotalComparisons > out[j].TotalComparisons
	})
	for i, corridor := range out {
		corridor.PopularityRank = i + 1
	}
	return out, nil
}

// TrendAnalysis computes per-platform receive-amount trends over each
// requested period, sorted descending by absolute change.
func (uc *DefaultAnalyticsUsecase) TrendAnalysis(ctx context.Context, senderCountry, recipientCountry string, periods []string) ([]*domain.TrendAnalysis, error) {
	out := make([]*domain.TrendAnalysis, 0)

	for _, period := range periods {
		days := parsePeriodDays(period)
		since := time.Now().UTC().AddDate(0, 0, -days)
		records, err := uc.ComparisonRepo.HistoricalRecords(ctx, senderCountry, recipientCountry, since)
		if err != nil {
			return nil, fmt.Errorf("load records for period %q: %w", period, err)
		}

		series := make(map[string][]float64)
		for i := len(records) - 1; i >= 0; i-- {
			for _, result := range records[i].PlatformResults {
				if result.Success {
					series[result.Platform] = append(series[result.Platform], result.ReceiveAmount)
				}
			}
		}

		for platform, amounts := range series {
			if len(amounts) < 2 {
				continue
			}
			start := amounts[0]
			end := amounts[len(amounts)-1]

			changePct := 0.0
			if start != 0 {
				changePct = (end - start) / start * 100
			}

			direction := domain.TrendStable
			if math.Abs(changePct) >= trendStabilityBand {
				if changePct > 0 {
					direction = domain.TrendImproving
				} else {
					direction = domain.TrendDeclining
				}
			}

			confidence := 0.0
			if len(amounts) >= 3 {
				confidence = math.Max(0, math.Min(100, rSquared(amounts)*100))
			}

			out = append(out, &domain.TrendAnalysis{
				Platform:         platform,
				Period:           period,
				StartRate:        start,
				EndRate:          end,
				ChangePercentage: changePct,
				Direction:        direction,
				Confidence:       confidence,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return math.Abs(out[i].ChangePercentage) > math.Abs(out[j].ChangePercentage)
	})
	return out, nil
}

// DailySummary aggregates one UTC calendar day. A day with no records
// yields an explicit zero summary, not an error.
func (uc *DefaultAnalyticsUsecase) DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	day := date.UTC()
	records, err := uc.ComparisonRepo.RecordsForDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load records for %s: %w", day.Format("2006-01-02"), err)
	}

	summary := &domain.DailySummary{
		Date:                day.Format("2006-01-02"),
		PlatformPerformance: make(map[string]int),
		TopCorridors:        []domain.CorridorCount{},
	}
	if len(records) == 0 {
		summary.Summary = "No comparisons recorded for this date"
		return summary, nil
	}

	corridors := make(map[string]int)
	var amountSum float64
	for _, record := range records {
		corridors[record.SenderCountry+"-"+record.RecipientCountry]++
		amountSum += record.Amount
		if record.WinnerPlatform != "" {
			summary.PlatformPerformance[record.WinnerPlatform]++
		}
	}

	summary.TotalComparisons = len(records)
	summary.UniqueCorridors = len(corridors)
	summary.AverageAmount = amountSum / float64(len(records))

	top := make([]domain.CorridorCount, 0, len(corridors))
	for corridor, count := range corridors {
		top = append(top, domain.CorridorCount{Corridor: corridor, Comparisons: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Comparisons != top[j].Comparisons {
			return top[i].Comparisons > top[j].Comparisons
		}
		return top[i].Corridor < top[j].Corridor
	})
	if len(top) > 5 {
		top = top[:5]
	}
	summary.TopCorridors = top

	summary.Summary = fmt.Sprintf("%d comparisons across %d corridors, average amount %.2f",
		summary.TotalComparisons, summary.UniqueCorridors, summary.AverageAmount)
	return summary, nil
}

// trendDirection splits a chronological series in half and compares the
// halves' means; changes inside the stability band count as stable.
func trendDirection(series []float64) domain.TrendDirection {
	if len(series) < 2 {
		return domain.TrendStable
	}

	mid := len(series) / 2
	firstMean := mean(series[:mid])
	secondMean := mean(series[mid:])
	if firstMean == 0 {
		return domain.TrendStable
	}

	changePct := (secondMean - firstMean) / firstMean * 100
	if math.Abs(changePct) < trendStabilityBand {
		return domain.TrendStable
	}
	if changePct > 0 {
		return domain.TrendImproving
	}
	return domain.TrendDeclining
}

// parsePeriodDays understands "7d" and "2w" style period strings and falls
// back to 30 days for anything unparseable.
func parsePeriodDays(period string) int {
	p := strings.ToLower(strings.TrimSpace(period))
	if len(p) < 2 {
		return defaultPeriodDays
	}

	unit := p[len(p)-1]
	n, err := strconv.Atoi(p[:len(p)-1])
	if err != nil || n <= 0 {
		return defaultPeriodDays
	}

	switch unit {
	case 'd':
		return n
	case 'w':
		return n * 7
	default:
		return defaultPeriodDays
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}

func coefficientOfVariation(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return 0
	}
	return stddev(values) / m
}

// rSquared fits receive amount against sequence index with ordinary least
// squares and returns the coefficient of determination.
func rSquared(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		sumYY += y * y
	}

	denom := (n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY)
	if denom == 0 {
		return 0
	}
	num := n*sumXY - sumX*sumY
	return num * num / denom
}
