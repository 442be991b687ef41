package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/remitip/rates-service/internal/domain"
	"github.com/remitip/rates-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPerformanceRepository struct {
	DB *gorm.DB
}

func NewDefaultPerformanceRepository(db *gorm.DB) *DefaultPerformanceRepository {
	return &DefaultPerformanceRepository{DB: db}
}

// UpsertPerformance applies one observation to the platform's daily row in a
// single ON CONFLICT statement, so counters and running averages stay
// consistent under concurrent writers.
func (r *DefaultPerformanceRepository) UpsertPerformance(ctx context.Context, platformName, senderCountry, recipientCountry string, delta domain.PerformanceDelta) error {
	now := time.Now().UTC()
	day := now.Truncate(24 * time.Hour)

	var successful, failed, wins int64
	if delta.Success {
		successful = 1
	} else {
		failed = 1
	}
	if delta.IsWinner {
		wins = 1
	}

	model := models.PlatformPerformanceModel{
		ID:                    uuid.NewString(),
		PlatformName:          platformName,
		SenderCountry:         senderCountry,
		RecipientCountry:      recipientCountry,
		Date:                  day,
		TotalRequests:         1,
		SuccessfulRequests:    successful,
		FailedRequests:        failed,
		AverageResponseTimeMs: float64(delta.ResponseTimeMs),
		TimesWinner:           wins,
		UpdatedAt:             now,
	}
	if delta.Rank > 0 {
		rank := float64(delta.Rank)
		model.AverageRank = &rank
	}

	assignments := map[string]interface{}{
		"total_requests":      gorm.Expr("platform_performance.total_requests + 1"),
		"successful_requests": gorm.Expr("platform_performance.successful_requests + ?", successful),
		"failed_requests":     gorm.Expr("platform_performance.failed_requests + ?", failed),
		"times_winner":        gorm.Expr("platform_performance.times_winner + ?", wins),
		"average_response_time_ms": gorm.Expr(
			"(platform_performance.average_response_time_ms * platform_performance.total_requests + ?) / (platform_performance.total_requests + 1)",
			float64(delta.ResponseTimeMs)),
		"updated_at": now,
	}
	if delta.Rank > 0 {
		// Running average weighted over total requests; rows that never saw
		// a ranked pass keep a NULL average rank.
		assignments["average_rank"] = gorm.Expr(
			"(coalesce(platform_performance.average_rank, ?) * platform_performance.total_requests + ?) / (platform_performance.total_requests + 1)",
			float64(delta.Rank), float64(delta.Rank))
	}

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "platform_name"},
				{Name: "sender_country"},
				{Name: "recipient_country"},
				{Name: "date"},
			},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(&model).Error
}

// Leaderboard aggregates the window's daily rows per platform, ordered by
// times won.
func (r *DefaultPerformanceRepository) Leaderboard(ctx context.Context, senderCountry, recipientCountry string, since time.Time) ([]*domain.PlatformPerformanceRecord, error) {
	var rows []struct {
		PlatformName          string
		TotalRequests         int64
		SuccessfulRequests    int64
		FailedRequests        int64
		AverageResponseTimeMs float64
		TimesWinner           int64
		AverageRank           *float64
		UpdatedAt             time.Time
	}

	err := r.DB.WithContext(ctx).
		Model(&models.PlatformPerformanceModel{}).
		Select(`platform_name,
			sum(total_requests) as total_requests,
			sum(successful_requests) as successful_requests,
			sum(failed_requests) as failed_requests,
			sum(average_response_time_ms * total_requests) / nullif(sum(total_requests), 0) as average_response_time_ms,
			sum(times_winner) as times_winner,
			avg(average_rank) as average_rank,
			max(updated_at) as updated_at`).
		Where("sender_country = ? AND recipient_country = ?", senderCountry, recipientCountry).
		Where("date >= ?", since).
		Group("platform_name").
		Order("times_winner DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]*domain.PlatformPerformanceRecord, len(rows))
	for i, row := range rows {
		records[i] = &domain.PlatformPerformanceRecord{
			PlatformName:          row.PlatformName,
			SenderCountry:         senderCountry,
			RecipientCountry:      recipientCountry,
			Date:                  since,
			TotalRequests:         row.TotalRequests,
			SuccessfulRequests:    row.SuccessfulRequests,
			FailedRequests:        row.FailedRequests,
			AverageResponseTimeMs: row.AverageResponseTimeMs,
			TimesWinner:           row.TimesWinner,
			AverageRank:           row.AverageRank,
			UpdatedAt:             row.UpdatedAt,
		}
	}
	return records, nil
}
