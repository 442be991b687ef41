package postgres

import (
	"log"

	"github.com/remitip/rates-service/internal/config"
	"github.com/remitip/rates-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.RatesConfig) *gorm.DB {
	dsn := cfg.RatesDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.ComparisonModel{},
		&models.PlatformPerformanceModel{},
		&models.APIUsageModel{},
		&models.CorridorPopularityModel{},
	)

	return db
}
