package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/remitip/rates-service/internal/domain"
	"github.com/remitip/rates-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCorridorPopularityRepository struct {
	DB *gorm.DB
}

func NewDefaultCorridorPopularityRepository(db *gorm.DB) *DefaultCorridorPopularityRepository {
	return &DefaultCorridorPopularityRepository{DB: db}
}

// Replace swaps the whole popularity table for the freshly computed ranking
// in one transaction.
func (r *DefaultCorridorPopularityRepository) Replace(ctx context.Context, corridors []*domain.CorridorAnalytics) error {
	now := time.Now().UTC()

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CorridorPopularityModel{}).Error; err != nil {
			return err
		}
		if len(corridors) == 0 {
			return nil
		}

		rows := make([]models.CorridorPopularityModel, len(corridors))
		for i, corridor := range corridors {
			rows[i] = models.CorridorPopularityModel{
				ID:               uuid.NewString(),
				SenderCountry:    corridor.SenderCountry,
				RecipientCountry: corridor.RecipientCountry,
				TotalComparisons: corridor.TotalComparisons,
				AverageAmount:    corridor.AverageAmount,
				PopularityRank:   corridor.PopularityRank,
				BestPlatform:     corridor.BestPlatform,
				AverageSavings:   corridor.AverageSavings,
				VolatilityScore:  corridor.VolatilityScore,
				LastCompared:     corridor.LastCompared,
				UpdatedAt:        now,
			}
		}
		return tx.Create(&rows).Error
	})
}
