package repository

import (
	"context"

	"github.com/remitip/rates-service/internal/domain"
	"github.com/remitip/rates-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultUsageLogRepository struct {
	DB *gorm.DB
}

func NewDefaultUsageLogRepository(db *gorm.DB) *DefaultUsageLogRepository {
	return &DefaultUsageLogRepository{DB: db}
}

func (r *DefaultUsageLogRepository) LogUsage(ctx context.Context, entry *domain.APIUsageEntry) error {
	model := models.APIUsageModel{
		RequestID:           entry.RequestID,
		Endpoint:            entry.Endpoint,
		Method:              entry.Method,
		SenderCountry:       entry.SenderCountry,
		RecipientCountry:    entry.RecipientCountry,
		Amount:              entry.Amount,
		FetchHistoricalData: entry.FetchHistoricalData,
		StatusCode:          entry.StatusCode,
		ResponseTimeMs:      entry.ResponseTimeMs,
		PlatformsQueried:    entry.PlatformsQueried,
		SuccessfulPlatforms: entry.SuccessfulPlatforms,
		RequestedAt:         entry.RequestedAt,
	}
	return r.DB.WithContext(ctx).Create(&model).Error
}
