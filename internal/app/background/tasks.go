package background

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/remitip/rates-service/internal/domain"
)

const (
	cleanupInterval     = 24 * time.Hour
	summaryInterval     = 24 * time.Hour
	popularityInterval  = 6 * time.Hour
	healthCheckInterval = time.Hour
	weeklyInterval      = 7 * 24 * time.Hour

	popularityWindowDays = 30
	weeklyTopCorridors   = 5
)

type BackgroundTasks struct {
	ComparisonUsecase domain.ComparisonUsecase
	AnalyticsUsecase  domain.AnalyticsUsecase
	ComparisonRepo    domain.ComparisonRepository
	PopularityRepo    domain.CorridorPopularityRepository

	cancel context.CancelFunc
}

func NewBackgroundTasks(
	comparisonUC domain.ComparisonUsecase,
	analyticsUC domain.AnalyticsUsecase,
	comparisonRepo domain.ComparisonRepository,
	popularityRepo domain.CorridorPopularityRepository,
) *BackgroundTasks {
	return &BackgroundTasks{
		ComparisonUsecase: comparisonUC,
		AnalyticsUsecase:  analyticsUC,
		ComparisonRepo:    comparisonRepo,
		PopularityRepo:    popularityRepo,
	}
}

// Start launches every scheduled job. Each cycle catches and logs its own
// errors so one bad run never stops the ticker.
func (bt *BackgroundTasks) Start(ctx context.Context) {
	ctx, bt.cancel = context.WithCancel(ctx)

	go bt.loop(ctx, cleanupInterval, "cleanup")
	go bt.loop(ctx, summaryInterval, "daily-summary")
	go bt.loop(ctx, popularityInterval, "popularity")
	go bt.loop(ctx, healthCheckInterval, "health-check")
	go bt.loop(ctx, weeklyInterval, "weekly-report")
}

func (bt *BackgroundTasks) Stop() {
	if bt.cancel != nil {
		bt.cancel()
	}
}

func (bt *BackgroundTasks) loop(ctx context.Context, interval time.Duration, jobType string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.RunJob(ctx, jobType); err != nil {
				slog.Error("scheduled job failed", "job", jobType, "error", err)
			}
		}
	}
}

// RunJob executes one cycle of the named job. The analytics jobs endpoint
// uses it to trigger jobs on demand.
func (bt *BackgroundTasks) RunJob(ctx context.Context, jobType string) error {
	switch jobType {
	case "cleanup":
		return bt.runCleanup(ctx)
	case "daily-summary":
		return bt.runDailySummary(ctx)
	case "popularity":
		return bt.runPopularityRefresh(ctx)
	case "health-check":
		return bt.runHealthCheck(ctx)
	case "weekly-report":
		return bt.runWeeklyReport(ctx)
	default:
		return fmt.Errorf("unknown job type %q", jobType)
	}
}

func (bt *BackgroundTasks) runCleanup(ctx context.Context) error {
	deleted, err := bt.ComparisonRepo.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("delete expired comparisons: %w", err)
	}
	slog.Info("expired comparisons cleaned up", "deleted", deleted)
	return nil
}

func (bt *BackgroundTasks) runDailySummary(ctx context.Context) error {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	summary, err := bt.AnalyticsUsecase.DailySummary(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("generate daily summary: %w", err)
	}

	slog.Info("daily summary generated",
		"date", summary.Date,
		"totalComparisons", summary.TotalComparisons,
		"uniqueCorridors", summary.UniqueCorridors,
		"averageAmount", summary.AverageAmount)
	return nil
}

func (bt *BackgroundTasks) runPopularityRefresh(ctx context.Context) error {
	corridors, err := bt.AnalyticsUsecase.CorridorAnalytics(ctx, popularityWindowDays)
	if err != nil {
		return fmt.Errorf("compute corridor analytics: %w", err)
	}
	if err := bt.PopularityRepo.Replace(ctx, corridors); err != nil {
		return fmt.Errorf("store corridor popularity: %w", err)
	}

	slog.Info("corridor popularity refreshed", "corridors", len(corridors))
	return nil
}

func (bt *BackgroundTasks) runHealthCheck(ctx context.Context) error {
	health := bt.ComparisonUsecase.HealthCheck(ctx)
	for platform, healthy := range health {
		if !healthy {
			slog.Warn("platform health check failed", "platform", platform)
		}
	}
	slog.Info("platform health check completed", "platforms", len(health))
	return nil
}

// runWeeklyReport logs platform analytics and 7-day trends for the busiest
// corridors of the past week.
func (bt *BackgroundTasks) runWeeklyReport(ctx context.Context) error {
	corridors, err := bt.AnalyticsUsecase.CorridorAnalytics(ctx, 7)
	if err != nil {
		return fmt.Errorf("compute weekly corridor analytics: %w", err)
	}
	if len(corridors) > weeklyTopCorridors {
		corridors = corridors[:weeklyTopCorridors]
	}

	for _, corridor := range corridors {
		analytics, err := bt.AnalyticsUsecase.PlatformAnalytics(ctx, corridor.SenderCountry, corridor.RecipientCountry, 7)
		if err != nil {
			slog.Error("weekly report: platform analytics failed",
				"senderCountry", corridor.SenderCountry,
				"recipientCountry", corridor.RecipientCountry,
				"error", err)
			continue
		}

		trends, err := bt.AnalyticsUsecase.TrendAnalysis(ctx, corridor.SenderCountry, corridor.RecipientCountry, []string{"7d"})
		if err != nil {
			slog.Error("weekly report: trend analysis failed",
				"senderCountry", corridor.SenderCountry,
				"recipientCountry", corridor.RecipientCountry,
				"error", err)
			continue
		}

		top := ""
		if len(analytics) > 0 {
			top = analytics[0].Platform
		}
		slog.Info("weekly corridor report",
			"senderCountry", corridor.SenderCountry,
			"recipientCountry", corridor.RecipientCountry,
			"comparisons", corridor.TotalComparisons,
			"mostReliablePlatform", top,
			"trendedPlatforms", len(trends))
	}
	return nil
}
