package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/remitip/rates-service/internal/domain"
	"github.com/remitip/rates-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultComparisonRepository struct {
	DB *gorm.DB
}

func NewDefaultComparisonRepository(db *gorm.DB) *DefaultComparisonRepository {
	return &DefaultComparisonRepository{DB: db}
}

func (r *DefaultComparisonRepository) SaveComparison(ctx context.Context, record *domain.ComparisonRecord) error {
	results, err := json.Marshal(record.PlatformResults)
	if err != nil {
		return fmt.Errorf("marshal platform results: %w", err)
	}

	model := models.ComparisonModel{
		ID:                record.ID,
		SenderCountry:     record.SenderCountry,
		RecipientCountry:  record.RecipientCountry,
		SenderCurrency:    record.SenderCurrency,
		RecipientCurrency: record.RecipientCurrency,
		Amount:            record.Amount,
		OfficialRate:      record.OfficialRate,
		OfficialAmount:    record.OfficialAmount,
		PlatformResults:   string(results),
		WinnerPlatform:    record.WinnerPlatform,
		BestReceiveAmount: record.BestReceiveAmount,
		BestExchangeRate:  record.BestExchangeRate,
		AverageRate:       record.AverageRate,
		RateVariancePct:   record.RateVariancePct,
		PlatformCount:     record.PlatformCount,
		CreatedAt:         record.CreatedAt,
		ExpiresAt:         record.ExpiresAt,
	}

	if err := r.DB.WithContext(ctx).Create(&model).Error; err != nil {
		// The unique (corridor, utc day) index catches the race between two
		// concurrent first comparisons of the day.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateComparison
		}
		return err
	}
	return nil
}

func (r *DefaultComparisonRepository) HasComparisonToday(ctx context.Context, senderCountry, recipientCountry string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.ComparisonModel{}).
		Where("sender_country = ? AND recipient_country = ?", senderCountry, recipientCountry).
		Where("(created_at at time zone 'utc')::date = (now() at time zone 'utc')::date").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultComparisonRepository) HistoricalRecords(ctx context.Context, senderCountry, recipientCountry string, since time.Time) ([]*domain.ComparisonRecord, error) {
	var comparisonModels []models.ComparisonModel
	err := r.DB.WithContext(ctx).
		Where("sender_country = ? AND recipient_country = ?", senderCountry, recipientCountry).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&comparisonModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainRecords(comparisonModels)
}

func (r *DefaultComparisonRepository) RecordsSince(ctx context.Context, since time.Time) ([]*domain.ComparisonRecord, error) {
	var comparisonModels []models.ComparisonModel
	err := r.DB.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&comparisonModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainRecords(comparisonModels)
}

func (r *DefaultComparisonRepository) RecordsForDay(ctx context.Context, day time.Time) ([]*domain.ComparisonRecord, error) {
	var comparisonModels []models.ComparisonModel
	err := r.DB.WithContext(ctx).
		Where("(created_at at time zone 'utc')::date = ?::date", day.UTC().Format("2006-01-02")).
		Order("created_at ASC").
		Find(&comparisonModels).Error
	if err != nil {
		return nil, err
	}
	return toDomainRecords(comparisonModels)
}

func (r *DefaultComparisonRepository) CorridorSummaries(ctx context.Context, since time.Time) ([]*domain.CorridorSummary, error) {
	var rows []struct {
		SenderCountry    string
		RecipientCountry string
		Comparisons      int64
		AverageAmount    float64
		LastCompared     time.Time
	}

	err := r.DB.WithContext(ctx).
		Model(&models.ComparisonModel{}).
		Select("sender_country, recipient_country, count(*) as comparisons, avg(amount) as average_amount, max(created_at) as last_compared").
		Where("created_at >= ?", since).
		Group("sender_country, recipient_country").
		Order("comparisons DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.CorridorSummary, len(rows))
	for i, row := range rows {
		summaries[i] = &domain.CorridorSummary{
			SenderCountry:    row.SenderCountry,
			RecipientCountry: row.RecipientCountry,
			Comparisons:      row.Comparisons,
			AverageAmount:    row.AverageAmount,
			LastCompared:     row.LastCompared,
		}
	}
	return summaries, nil
}

func (r *DefaultComparisonRepository) CountForCorridor(ctx context.Context, senderCountry, recipientCountry string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.ComparisonModel{}).
		Where("sender_country = ? AND recipient_country = ?", senderCountry, recipientCountry).
		Count(&count).Error
	return count, err
}

func (r *DefaultComparisonRepository) OldestRecord(ctx context.Context, senderCountry, recipientCountry string) (*time.Time, error) {
	return r.boundaryRecord(ctx, senderCountry, recipientCountry, "min")
}

func (r *DefaultComparisonRepository) NewestRecord(ctx context.Context, senderCountry, recipientCountry string) (*time.Time, error) {
	return r.boundaryRecord(ctx, senderCountry, recipientCountry, "max")
}

func (r *DefaultComparisonRepository) boundaryRecord(ctx context.Context, senderCountry, recipientCountry, agg string) (*time.Time, error) {
	var boundary *time.Time
	err := r.DB.WithContext(ctx).
		Model(&models.ComparisonModel{}).
		Select(agg+"(created_at)").
		Where("sender_country = ? AND recipient_country = ?", senderCountry, recipientCountry).
		Scan(&boundary).Error
	if err != nil {
		return nil, err
	}
	return boundary, nil
}

func (r *DefaultComparisonRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.ComparisonModel{})
	return res.RowsAffected, res.Error
}

func toDomainRecords(comparisonModels []models.ComparisonModel) ([]*domain.ComparisonRecord, error) {
	records := make([]*domain.ComparisonRecord, len(comparisonModels))
	for i, model := range comparisonModels {
		var results []domain.RateQuoteResult
		if model.PlatformResults != "" {
			if err := json.Unmarshal([]byte(model.PlatformResults), &results); err != nil {
				return nil, fmt.Errorf("unmarshal platform results of %s: %w", model.ID, err)
			}
		}

		records[i] = &domain.ComparisonRecord{
			ID:                model.ID,
			SenderCountry:     model.SenderCountry,
			RecipientCountry:  model.RecipientCountry,
			SenderCurrency:    model.SenderCurrency,
			RecipientCurrency: model.RecipientCurrency,
			Amount:            model.Amount,
			OfficialRate:      model.OfficialRate,
			OfficialAmount:    model.OfficialAmount,
			PlatformResults:   results,
			WinnerPlatform:    model.WinnerPlatform,
			BestReceiveAmount: model.BestReceiveAmount,
			BestExchangeRate:  model.BestExchangeRate,
			AverageRate:       model.AverageRate,
			RateVariancePct:   model.RateVariancePct,
			PlatformCount:     model.PlatformCount,
			CreatedAt:         model.CreatedAt,
			ExpiresAt:         model.ExpiresAt,
		}
	}
	return records, nil
}
